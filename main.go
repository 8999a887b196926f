// Package main is the entry point for the weblog binary. Command-line
// parsing, config-file loading and environment overrides live in cmd/.
package main

import "github.com/go-i2p/weblog/cmd"

func main() { cmd.Execute() }
