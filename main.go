// Package main is the entry point for the tastmod CLI.
package main

import "tastmod.dev/pkg/tastmod/cmd"

func main() {
	cmd.Execute()
}
