package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportDryRun bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the composition manifest",
	Long: `Write the committed composition to .appcomposer/composition.yaml in the
project root. A pending edit is not exported.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Print the manifest instead of writing it")
}

func runExport(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Export(ctx, &engine.ExportRequest{CWD: cwd, DryRun: exportDryRun})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		warnDrift(result.Drift)
		if result.PendingSkipped {
			PrintWarning("The pending edit was not exported")
		}

		if !result.Written {
			data, err := yaml.Marshal(result.Manifest)
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, string(data))
			return nil
		}

		PrintSuccess(fmt.Sprintf("Exported %s to %s",
			PrintCount(result.Manifest.Len(), "instance", "instances"), result.Path))
		return nil
	})
}
