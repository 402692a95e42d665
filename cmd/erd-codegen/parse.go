package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diagramlab/erd-codegen/internal/imaging"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse <image>",
	Short: "Reconstruct a schema from an ER diagram image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newPipeline()
		if err != nil {
			return err
		}

		img, err := imaging.Load(args[0])
		if err != nil {
			return err
		}

		result, err := pipeline.Parse(cmd.Context(), img)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if parseOutput == "" || parseOutput == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(parseOutput, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "schema written to %s\n", parseOutput)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the schema JSON to a file instead of stdout")
	rootCmd.AddCommand(parseCmd)
}
