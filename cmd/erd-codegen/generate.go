package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diagramlab/erd-codegen/internal/generate"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

var (
	generateStack string
	generateOut   string
	generateZip   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <schema.json>",
	Short: "Generate a backend project from a schema document",
	Long: `Generate reads a schema document produced by parse (or written by hand),
validates it, and generates a project for the chosen target stack.

Supported stacks: ` + strings.Join(generate.StackNames(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		generator, err := newGenerator()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := schema.ValidateDocument(data); err != nil {
			return fmt.Errorf("invalid schema document: %w", err)
		}
		var doc schema.Schema
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid schema document: %w", err)
		}

		result, err := generator.Generate(cmd.Context(), doc, generateStack, generateOut)
		if err != nil {
			return err
		}

		if generateZip {
			zipPath := result.ProjectDir + ".zip"
			if err := generate.ZipDir(zipPath, result.ProjectDir); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "project archived at %s\n", zipPath)
		}

		fmt.Fprintf(os.Stderr, "project generated at %s (%d files)\n", result.ProjectDir, len(result.Files))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateStack, "stack", "", "target stack: "+strings.Join(generate.StackNames(), ", "))
	generateCmd.Flags().StringVarP(&generateOut, "out", "O", ".", "directory to generate the project under")
	generateCmd.Flags().BoolVar(&generateZip, "zip", false, "also archive the generated project")
	generateCmd.MarkFlagRequired("stack")
	rootCmd.AddCommand(generateCmd)
}
