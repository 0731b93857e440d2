package main

import (
	"fmt"
	"os"

	"github.com/johan198205/lekia-translations-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
