// ABOUTME: Entry point for the voxnote CLI
// ABOUTME: Builds the command tree and runs it
package main

import (
	"fmt"
	"os"

	"github.com/Voxnote-Project/voxnote-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
