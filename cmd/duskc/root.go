// Command duskc is the Dusk shading-language compiler CLI.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "duskc",
	Short: "A compiler for the Dusk shading language.",
	Long:  "duskc compiles Dusk shader source to Vulkan SPIR-V binaries.",
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getFlag(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.Fatalf("unknown flag %q", flag)
	}
	return v
}

func getString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		log.Fatalf("unknown flag %q", flag)
	}
	return v
}
