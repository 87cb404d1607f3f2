package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbxark/slotagent/types"
)

//go:embed contact.yaml
var defaultSchema []byte

func loadSchema(path string) ([]types.FieldSpec, error) {
	if path == "" {
		return types.ParseSchema(defaultSchema)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return types.ParseSchema(data)
}

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Validate a field schema and print its questions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		fields, err := loadSchema(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, f := range fields {
			required := f.Required == nil || *f.Required
			fmt.Fprintf(out, "%d. %s (required=%t): %s\n", i+1, f.Name, required, f.Question)
		}
		return nil
	},
}
