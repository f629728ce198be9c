package main

import (
	"fmt"
	"os"

	"github.com/danieljhkim/appcomposer/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		if msg := cli.FormatError(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
