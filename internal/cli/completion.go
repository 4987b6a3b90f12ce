package cli

import (
	"os"
	"strings"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	// Best-effort dynamic completion for --deny check ids.
	_ = rootCmd.RegisterFlagCompletionFunc("deny", completeCheckIDs)
}

// completeCheckIDs offers every catalog check id as a completion candidate
// for --deny, annotated with its group and description. The catalog is
// read-only process-wide state (§9), so this never touches a database or
// the filesystem beyond the compiled-in rule table.
func completeCheckIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, check := range cat.All() {
		if toComplete != "" && !strings.HasPrefix(check.ID, toComplete) {
			continue
		}
		out = append(out, check.ID+"\t"+check.Group+": "+check.Description)
	}

	return out, cobra.ShellCompDirectiveNoFileComp
}
