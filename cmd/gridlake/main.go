// Package main is the entry point for the gridlake CLI binary.
package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"gridlake/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
