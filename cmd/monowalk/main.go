// Command monowalk attaches to a running Unity process (or a captured
// memory dump of one) and resolves classes and field offsets from the
// command line, or browses the resolved metadata graph interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unityscope/monowalk/internal/config"
	"github.com/unityscope/monowalk/internal/log"
)

var (
	pid        uint32
	dumpPath   string
	configPath string
	verbose    bool
	cfg        config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "monowalk",
		Short: "Resolve Unity Mono/IL2CPP metadata addresses from outside the process",
		Long: `monowalk attaches to a running Unity game (or a captured memory dump) and
walks its managed-runtime metadata graph — Mono or IL2CPP — to resolve
classes and field offsets, all from read-only process introspection.

Examples:
  monowalk field --pid 1234 Assembly-CSharp Player hp
  monowalk info --pid 1234
  monowalk browse --pid 1234
  monowalk serve --pid 1234 --addr 127.0.0.1:9421`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				c, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = c
			} else {
				cfg = config.Default()
			}
			if verbose {
				cfg.Verbose = true
			}
			log.Init(cfg.Verbose)
			return cfg.ApplyOverrides()
		},
	}

	rootCmd.PersistentFlags().Uint32Var(&pid, "pid", 0, "target process ID")
	rootCmd.PersistentFlags().StringVar(&dumpPath, "dump", "", "read from a captured memory dump instead of a live process")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newFieldCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
