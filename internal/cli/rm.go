package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
)

var rmDryRun bool

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a page or feature",
	Long: `Remove a page or feature from the composition.

Hidden dependencies that nothing else uses are removed with it. Removal is
refused while another selected template depends on the instance.`,
	Example: `  appcomposer rm Orders
  appcomposer rm Orders --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVar(&rmDryRun, "dry-run", false, "Show what would be removed")
}

func runRm(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Remove(ctx, &engine.RemoveRequest{
			CWD:    cwd,
			Name:   args[0],
			DryRun: rmDryRun,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.DryRun {
			PrintSection("Removal plan (dry run)")
			if result.Plan != nil && result.Plan.HasConflicts() {
				for _, c := range result.Plan.Conflicts {
					PrintWarning(fmt.Sprintf("%s: %s", c.Name, c.Reason))
				}
				return nil
			}
			PrintList(result.Removed, 1)
			if len(result.Pruned) > 0 {
				PrintSubsection("Unused dependencies")
				PrintList(result.Pruned, 1)
			}
			return nil
		}

		PrintSuccess(fmt.Sprintf("Removed %s", strings.Join(result.Removed, ", ")))
		if len(result.Pruned) > 0 {
			PrintInfo(fmt.Sprintf("  Also removed unused %s: %s",
				pluralWord(len(result.Pruned), "dependency", "dependencies"), strings.Join(result.Pruned, ", ")))
		}
		return nil
	})
}

func pluralWord(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
