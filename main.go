package main

import (
	"fmt"
	"os"

	"dnarelationships/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "dnarel:", err)
		os.Exit(1)
	}
}
