// Package scrape fetches web pages, extracts their content and saves the result.
package scrape
