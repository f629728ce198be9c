package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
)

var (
	addName     string
	addNoPrompt bool
)

var addCmd = &cobra.Command{
	Use:   "add <template>",
	Short: "Add a template to the composition",
	Long: `Add a catalog template to the composition. Its dependencies are added with it.

Templates that let you choose a name open a pending edit under a suggested
name. In a terminal you are asked for the name right away; otherwise finish
the edit with 'appcomposer name', 'appcomposer save' or 'appcomposer cancel'.
Pass --name to commit immediately.`,
	Example: `  appcomposer add shop.Page.Grid
  appcomposer add shop.Page.Grid --name Orders
  appcomposer add shop.Feature.Settings`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var nameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Set the name of the pending edit",
	Args:  cobra.ExactArgs(1),
	RunE:  runName,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Commit the pending edit",
	Args:  cobra.NoArgs,
	RunE:  runSave,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the pending edit",
	Args:  cobra.NoArgs,
	RunE:  runCancel,
}

func init() {
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Name for the new page or feature")
	addCmd.Flags().BoolVar(&addNoPrompt, "no-prompt", false, "Leave the edit pending instead of asking for a name")
}

func runAdd(cmd *cobra.Command, args []string) error {
	template := args[0]

	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Add(ctx, &engine.AddRequest{
			CWD:      cwd,
			Template: template,
			Name:     addName,
		})
		if err != nil {
			return err
		}

		if result.Pending != nil && !addNoPrompt && interactive() {
			saved, err := promptPendingName(ctx, eng, cwd, *result.Pending)
			if errors.Is(err, ErrAborted) {
				PrintWarning(fmt.Sprintf("Left %s pending as %q", result.Pending.Template, result.Pending.Name))
				PrintHint("Use 'appcomposer save' or 'appcomposer cancel' to finish the edit.")
				return nil
			}
			if err != nil {
				return err
			}
			result = saved
		}

		if jsonOutput {
			return outputJSON(result)
		}

		warnDrift(result.Drift)
		printAddResult(result)
		return nil
	})
}

// promptPendingName asks for the pending name until it validates, then
// commits the edit.
func promptPendingName(ctx context.Context, eng *engine.Engine, cwd string, pending engine.PendingInfo) (*engine.AddResult, error) {
	validate := func(name string) error {
		res, err := eng.SetPendingName(ctx, &engine.SetNameRequest{CWD: cwd, Name: strings.TrimSpace(name)})
		if err != nil {
			return err
		}
		if !res.Pending.Valid {
			return errors.New(pendingProblem(res.Pending))
		}
		return nil
	}

	quietStatus = true
	_, err := prompter.Name(fmt.Sprintf("Name for %s:", pending.Template), pending.Name, validate)
	quietStatus = false
	if err != nil {
		return nil, err
	}

	return eng.SaveEdit(ctx, &engine.SaveEditRequest{CWD: cwd})
}

func printAddResult(result *engine.AddResult) {
	if p := result.Pending; p != nil {
		PrintInfo(fmt.Sprintf("Staged %s as %q", p.Template, p.Name))
		if !p.Valid {
			PrintWarning(pendingProblem(*p))
			PrintHint("Use 'appcomposer name <name>' to choose another name.")
			return
		}
		PrintHint("Use 'appcomposer save' to add it, or 'appcomposer name <name>' to rename it first.")
		return
	}

	for _, inst := range result.Added {
		if inst.Hidden {
			PrintInfo(fmt.Sprintf("  + %s (%s) as a dependency", inst.Name, inst.Template))
			continue
		}
		PrintSuccess(fmt.Sprintf("Added %s (%s)", homeBadge(inst.Name, inst.Home), inst.Template))
	}
}

func runName(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.SetPendingName(ctx, &engine.SetNameRequest{CWD: cwd, Name: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Pending.Valid {
			PrintSuccess(fmt.Sprintf("Pending %s is now named %q", result.Pending.Template, result.Pending.Name))
			PrintHint("Use 'appcomposer save' to add it.")
		} else {
			PrintWarning(pendingProblem(result.Pending))
			PrintHint("Use 'appcomposer name <name>' to choose another name.")
		}
		return nil
	})
}

func runSave(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.SaveEdit(ctx, &engine.SaveEditRequest{CWD: cwd})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		warnDrift(result.Drift)
		printAddResult(result)
		return nil
	})
}

func runCancel(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.CancelEdit(ctx, &engine.CancelEditRequest{CWD: cwd})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Discarded pending %s", result.Template))
		return nil
	})
}
