/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Command starcore is the CLI front end over pkg/pipeline: it loads PNG frames
// from disk, runs detection/solving/stacking, and writes the results back out.
package main

/*****************************************************************************************************************/

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

var (
	logLevel  string
	logFormat string
)

/*****************************************************************************************************************/

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "starcore",
		Short: "Detect, solve, and stack astrophotography frames",
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")

	root.AddCommand(newDetectCommand())
	root.AddCommand(newSolveCommand())
	root.AddCommand(newStackCommand())
	root.AddCommand(newDebugCommand())
	root.AddCommand(newGenIndexCommand())

	return root
}

/*****************************************************************************************************************/

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

/*****************************************************************************************************************/
