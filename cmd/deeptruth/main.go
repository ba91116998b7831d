// Package main is the entry point for the deeptruth CLI.
//
// Usage:
//
//	deeptruth [flags] <command> [subcommand] [args]
//
// Commands:
//
//	analyze    - Analyze an audio file for deepfake and voiceprint signals
//	enroll     - Enroll a family member's voiceprint from audio samples
//	members    - List or delete enrolled voiceprints
//	history    - Inspect past analysis results
//	challenge  - Manage family code challenge questions
package main

import (
	"fmt"
	"os"

	"github.com/deeptruth/deeptruth/cmd/deeptruth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
