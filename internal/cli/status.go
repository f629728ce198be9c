package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current composition",
	Long: `Show the pages, features and open edit of the session for the current
project. Page positions are the ones 'appcomposer move' takes.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Status(ctx, &engine.StatusRequest{CWD: cwd})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		warnDrift(result.Drift)

		PrintSection("Session")
		PrintLabelValue("ID", state.ShortID(result.SessionID))
		PrintLabelValue("Project", result.ProjectRoot)
		if result.Subdir != "" {
			PrintLabelValue("Directory", result.Subdir)
		}
		PrintLabelValue("Type", result.ProjectType)
		if result.Framework != "" {
			PrintLabelValue("Framework", result.Framework)
		}
		PrintLabelValue("Updated", result.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

		PrintSection("Pages")
		if len(result.PageGroups) == 0 {
			PrintEmptyState("No pages selected")
		}
		for g, group := range result.PageGroups {
			if len(result.PageGroups) > 1 {
				PrintSubsection(fmt.Sprintf("Group %d", g))
			}
			if len(group) == 0 {
				PrintEmptyState("(empty)")
				continue
			}
			PrintNumberedList(describeInstances(group), 1)
		}

		PrintSection("Features")
		if len(result.Features) == 0 {
			PrintEmptyState("No features selected")
		} else {
			PrintList(describeInstances(result.Features), 1)
		}

		if p := result.Pending; p != nil {
			PrintSection("Pending edit")
			PrintLabelValue("Template", p.Template)
			PrintLabelValue("Name", p.Name)
			if !p.Valid {
				PrintWarning(fmt.Sprintf("The pending name is not valid (%s)", p.Problem))
				PrintHint("Use 'appcomposer name <name>' to fix it, or 'appcomposer cancel' to discard it.")
			} else {
				PrintHint("Use 'appcomposer save' to add it, or 'appcomposer cancel' to discard it.")
			}
		}
		return nil
	})
}

// describeInstances renders instances for listings
func describeInstances(insts []engine.InstanceInfo) []string {
	items := make([]string, 0, len(insts))
	for _, inst := range insts {
		item := fmt.Sprintf("%s (%s)", homeBadge(inst.Name, inst.Home), inst.Template)
		switch {
		case inst.Hidden:
			item += dimColor.Sprint(" [dependency]")
		case !inst.Removable:
			item += dimColor.Sprint(" [required]")
		}
		items = append(items, item)
	}
	return items
}
