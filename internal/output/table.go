package output

import (
	"fmt"
	"os"
	"text/tabwriter"
)

// OutputTable renders a simple aligned table to stderr: a header row
// followed by each data row, columns padded with tabwriter. Used by CLI
// subcommands (e.g. `cmdgate catalog list`) that want a human-readable
// listing without going through the JSON/YAML/TOON Writer machinery.
func OutputTable(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, tabJoin(headers))
	for _, row := range rows {
		fmt.Fprintln(tw, tabJoin(row))
	}
	_ = tw.Flush()
}

// OutputList renders one item per line to stderr.
func OutputList(items []string) {
	for _, item := range items {
		fmt.Fprintln(os.Stderr, item)
	}
}

func tabJoin(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += "\t"
		}
		out += f
	}
	return out
}
