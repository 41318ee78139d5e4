package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

func ping(context.Context) error { return nil }

func pong(context.Context) error { return errors.New("pong") }

type counter struct{ n int }

func (c *counter) Inc(context.Context) error {
	c.n++
	return nil
}

//go:noinline
func greeter(name string, out *[]string) Func {
	return func(context.Context) error {
		*out = append(*out, name)
		return nil
	}
}

func TestRegisterAndResolve(t *testing.T) {
	c := New()
	loc := core.Locator{Module: "test", Symbol: "ping"}
	require.NoError(t, c.Register(loc, ping, Describe("says ping")))

	fn, err := c.Resolve(loc)
	require.NoError(t, err)
	assert.NoError(t, fn(context.Background()))
	assert.Equal(t, 1, c.Len())
}

func TestResolve_Unknown(t *testing.T) {
	c := New()
	loc := core.Locator{Module: "test", Symbol: "missing"}

	_, err := c.Resolve(loc)
	var re *core.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, loc, re.Locator)
	assert.True(t, errors.Is(err, core.ErrUnknownLocator))
}

func TestRegister_Rejects(t *testing.T) {
	c := New()
	loc := core.Locator{Module: "test", Symbol: "ping"}
	require.NoError(t, c.Register(loc, ping))

	err := c.Register(loc, pong)
	assert.True(t, errors.Is(err, core.ErrDuplicateLocator))

	err = c.Register(core.Locator{Module: "test", Symbol: "nil"}, nil)
	assert.True(t, errors.Is(err, core.ErrNilFunc))

	err = c.Register(core.Locator{Module: "9bad", Symbol: "x"}, pong)
	var ve *core.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestMustRegister_Panics(t *testing.T) {
	c := New()
	c.MustRegister("test", "ping", ping)
	assert.Panics(t, func() { c.MustRegister("test", "ping", ping) })
}

func TestLocatorOf(t *testing.T) {
	c := New()
	c.MustRegister("test", "ping", ping)
	c.MustRegister("test", "pong", pong)

	loc, ok := c.LocatorOf(ping)
	require.True(t, ok)
	assert.Equal(t, core.Locator{Module: "test", Symbol: "ping"}, loc)

	loc, ok = c.LocatorOf(pong)
	require.True(t, ok)
	assert.Equal(t, "test:pong", loc.String())
}

func TestLocatorOf_Unregistered(t *testing.T) {
	c := New()
	c.MustRegister("test", "ping", ping)

	_, ok := c.LocatorOf(pong)
	assert.False(t, ok)

	_, ok = c.LocatorOf(func(context.Context) error { return nil })
	assert.False(t, ok)

	_, ok = c.LocatorOf(nil)
	assert.False(t, ok)
}

func TestLocatorOf_SharedCodeIsAmbiguous(t *testing.T) {
	c := New()
	a, b := &counter{}, &counter{}
	c.MustRegister("counter", "a", a.Inc)
	c.MustRegister("counter", "b", b.Inc)

	_, ok := c.LocatorOf(a.Inc)
	assert.False(t, ok)

	// Locator resolution still returns the right receiver.
	fn, err := c.Resolve(core.Locator{Module: "counter", Symbol: "b"})
	require.NoError(t, err)
	require.NoError(t, fn(context.Background()))
	assert.Equal(t, 0, a.n)
	assert.Equal(t, 1, b.n)
}

func TestLocatorOf_ClosureHasNoIdentity(t *testing.T) {
	c := New()
	var calls []string
	registered := greeter("registered", &calls)
	c.MustRegister("greet", "registered", registered)

	_, ok := c.LocatorOf(greeter("stray", &calls))
	assert.False(t, ok)
	_, ok = c.LocatorOf(registered)
	assert.False(t, ok)

	fn, err := c.Resolve(core.Locator{Module: "greet", Symbol: "registered"})
	require.NoError(t, err)
	require.NoError(t, fn(context.Background()))
	assert.Equal(t, []string{"registered"}, calls)
}

func TestLocatorOf_MethodValueHasNoIdentity(t *testing.T) {
	c := New()
	a, b := &counter{}, &counter{}
	c.MustRegister("counter", "a", a.Inc)

	_, ok := c.LocatorOf(b.Inc)
	assert.False(t, ok)
	_, ok = c.LocatorOf(a.Inc)
	assert.False(t, ok)
}

func TestLocatorOf_SameFunctionTwiceIsAmbiguous(t *testing.T) {
	c := New()
	c.MustRegister("test", "ping", ping)
	c.MustRegister("test", "ping-again", ping)

	_, ok := c.LocatorOf(ping)
	assert.False(t, ok)
}

func TestEntries_Sorted(t *testing.T) {
	c := New()
	c.MustRegister("scraping", "scrape", pong, Describe("scrape all"))
	c.MustRegister("builtin", "heartbeat", ping)

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "builtin:heartbeat", entries[0].Locator.String())
	assert.Equal(t, "scraping:scrape", entries[1].Locator.String())
	assert.Equal(t, "scrape all", entries[1].Description)
}
