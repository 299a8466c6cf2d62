package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"site-content/pkg/content"
	"site-content/pkg/models"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema [collection]",
	Short: "Print collection schemas",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v interface{} = content.Default().Schemas()
		if len(args) == 1 {
			fields, err := content.GetSchema(args[0])
			if err != nil {
				return err
			}
			v = models.CollectionSchema{Name: args[0], Fields: fields}
		}

		out := cmd.OutOrStdout()
		switch schemaFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(v)
		default:
			return fmt.Errorf("unsupported format: %s", schemaFormat)
		}
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(schemaCmd)
}
