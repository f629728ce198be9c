package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
)

var resetLayout bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the composition",
	Long: `Remove every page and feature and discard the pending edit. With --layout
the project type's layout is applied again afterwards.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetLayout, "layout", false, "Re-apply the project layout")
}

func runReset(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Reset(ctx, &engine.ResetRequest{CWD: cwd, Layout: resetLayout})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Cleared %s", PrintCount(result.Removed, "instance", "instances")))
		if len(result.Instances) > 0 {
			PrintInfo(fmt.Sprintf("Layout restored %s", PrintCount(len(result.Instances), "instance", "instances")))
		}
		return nil
	})
}
