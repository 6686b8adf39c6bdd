package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dusklang/duskc"
	"github.com/dusklang/duskc/spirv"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] input.dusk",
	Short: "compile a Dusk shader to a SPIR-V binary.",
	Long:  "Compile a single Dusk source file containing one or more entry points into a SPIR-V binary module.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		input := args[0]
		source, err := os.ReadFile(input)
		if err != nil {
			log.Fatalf("error reading %s: %v", input, err)
		}

		opts := dusk.Options{
			Entry:        getString(cmd, "entry"),
			SPIRVVersion: spirv.Version1_3,
			Debug:        getFlag(cmd, "debug"),
		}
		log.Debugf("compiling %s, entry point %q", input, opts.Entry)

		spirvBytes, err := dusk.CompileWithOptions(input, string(source), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}

		output := getString(cmd, "output")
		if output == "" {
			if _, err := os.Stdout.Write(spirvBytes); err != nil {
				log.Fatalf("error writing to stdout: %v", err)
			}
			return
		}
		if err := os.WriteFile(output, spirvBytes, 0o644); err != nil {
			log.Fatalf("error writing %s: %v", output, err)
		}
		log.Infof("wrote %d bytes to %s", len(spirvBytes), output)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "a.spv", "output file")
	compileCmd.Flags().String("entry", "main", "name of the entry point function to compile")
	compileCmd.Flags().Bool("debug", false, "include OpName/OpMemberName debug info in the output")
	compileCmd.Flags().Bool("verbose", false, "enable debug-level logging")
}
