package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillprobe/internal/llm"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and detected LLM provider",
	Run: func(_ *cobra.Command, _ []string) {
		v := version
		if v == "(devel)" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				v = info.Main.Version
			}
		}
		fmt.Printf("skillprobe version: %s\n", v)

		if cfg, ok := llm.DiscoverConfig(); ok {
			fmt.Printf("judge provider: %s\n", cfg.Provider)
		} else {
			fmt.Println("judge provider: none (rule-only scoring)")
		}
	},
}
