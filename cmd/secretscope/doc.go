// Package secretscope provides the command-line interface for the
// secretscope tool. It configures subcommands (scan, env, bucket,
// detectors, last, version), parses flags, and executes the selected
// command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/secretscope/secretscope/cmd/secretscope"
//	func main() { secretscope.Execute() }
package secretscope
