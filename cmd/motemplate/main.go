package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "motemplate",
		Short: "Data-binding text template engine",
		Long: `motemplate compiles mustache-themed templates and renders them against
JSON or YAML data. Resolution failures never abort a render; they are
reported on stderr while the best-effort output goes to stdout.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("motemplate version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
