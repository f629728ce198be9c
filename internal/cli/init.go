package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/spf13/cobra"
)

var (
	initProjectType string
	initFramework   string
	initEmpty       bool
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a composition session for this project",
	Long: `Start a composition session for the project containing the current directory.

The session starts from the catalog layout of the project type, so the
standard pages and features are selected from the beginning. Use --empty to
start from nothing instead.`,
	Example: `  appcomposer init --type SplitView
  appcomposer init --type SplitView --framework MVVMToolkit
  appcomposer init --type Blank --empty --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initProjectType, "type", "t", "", "Project type whose layout to start from")
	initCmd.Flags().StringVarP(&initFramework, "framework", "f", "", "Framework used to filter templates")
	initCmd.Flags().BoolVar(&initEmpty, "empty", false, "Start with no pages or features")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing session")
}

func runInit(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.NewSession(ctx, &engine.NewSessionRequest{
			CWD:         cwd,
			ProjectType: initProjectType,
			Framework:   initFramework,
			Empty:       initEmpty,
			Force:       initForce,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Replaced {
			PrintWarning("Replaced the existing session")
		}
		PrintSuccess(fmt.Sprintf("Started session %s", state.ShortID(result.SessionID)))
		PrintLabelValue("Project", result.ProjectRoot)
		PrintLabelValue("Type", result.ProjectType)
		if result.Framework != "" {
			PrintLabelValue("Framework", result.Framework)
		}

		if len(result.Instances) == 0 {
			PrintEmptyState("The composition is empty. Add templates with 'appcomposer add <template>'.")
			return nil
		}

		PrintSection(PrintCount(len(result.Instances), "instance", "instances"))
		items := make([]string, 0, len(result.Instances))
		for _, inst := range result.Instances {
			items = append(items, fmt.Sprintf("%s (%s)", homeBadge(inst.Name, inst.Home), inst.Template))
		}
		PrintList(items, 1)
		return nil
	})
}
