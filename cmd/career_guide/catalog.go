package main

import (
	json "github.com/goccy/go-json"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the career interests, education levels and goals a profile may use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog := types.DefaultCatalog()
		if catalogJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintCatalog(catalog)
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(catalogCmd)
}
