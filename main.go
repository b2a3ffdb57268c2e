// Package main is the entry point for the viewspy CLI.
package main

import "gooze.dev/pkg/viewspy/cmd"

func main() {
	cmd.Execute()
}
