// Command cinder runs and manages persistent recurring scraping tasks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cinder:", err)
		os.Exit(1)
	}
}
