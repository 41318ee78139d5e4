// Package logx wires the application's log sink.
//
// Library packages log through *slog.Logger. At the edge of the program this
// package builds a zerolog logger (console writer, JSON file, or both) and
// exposes it as an slog.Handler so every package shares one sink.
package logx
