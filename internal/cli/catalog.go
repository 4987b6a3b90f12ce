package cli

import (
	"sort"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/output"
	"github.com/spf13/cobra"
)

var flagCatalogGroup string

func init() {
	catalogListCmd.Flags().StringVar(&flagCatalogGroup, "group", "", "restrict to a single check group")
	catalogCmd.AddCommand(catalogListCmd, catalogGroupsCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the compiled-in check catalog",
}

var catalogGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List every check group in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		groups := cat.Groups()

		if output.IsJSON() || GetOutput() != "text" {
			return output.New(output.Format(GetOutput())).Write(groups)
		}
		output.OutputList(groups)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checks, optionally filtered to a single --group",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		var checks []*catalog.Check
		if flagCatalogGroup != "" {
			checks = cat.ByGroup(flagCatalogGroup)
		} else {
			checks = cat.All()
		}
		sorted := make([]*catalog.Check, len(checks))
		copy(sorted, checks)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

		if output.IsJSON() || GetOutput() != "text" {
			return output.New(output.Format(GetOutput())).Write(sorted)
		}

		rows := make([][]string, 0, len(sorted))
		for _, c := range sorted {
			rows = append(rows, []string{c.ID, c.Group, c.Severity.String(), c.Description})
		}
		output.OutputTable([]string{"ID", "GROUP", "SEVERITY", "DESCRIPTION"}, rows)
		return nil
	},
}
