package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/output"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List the built-in taxonomies and their dimensions",
	RunE:  runTaxonomy,
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
	if flagNoColor {
		output.SetNoColor(true)
	} else {
		output.AutoColor()
	}

	type taxView struct {
		ID       taxonomy.ID `json:"id"`
		Positive []string    `json:"positive"`
		Negative []string    `json:"negative"`
	}

	if flagJSON {
		var views []taxView
		for _, id := range taxonomy.StaticIDs() {
			tax, err := taxonomy.Get(id)
			if err != nil {
				return err
			}
			views = append(views, taxView{ID: id, Positive: tax.Positive, Negative: tax.Negative})
		}
		return printJSON(views)
	}

	tbl := output.NewTable("Taxonomy", "Positive", "Negative")
	for _, id := range taxonomy.StaticIDs() {
		tax, err := taxonomy.Get(id)
		if err != nil {
			return err
		}
		tbl.AddRow(string(id), strings.Join(tax.Positive, ", "), strings.Join(tax.Negative, ", "))
	}
	tbl.Print()
	return nil
}
