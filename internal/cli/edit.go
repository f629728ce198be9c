package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:     "rename <name> <new-name>",
	Short:   "Rename a page or feature",
	Example: `  appcomposer rename Main Dashboard`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRename,
}

var homeCmd = &cobra.Command{
	Use:   "home <name>",
	Short: "Make a page the home page",
	Long: `Make a page the home page by moving it to the front of the first page group.
Pages in later groups cannot become home.`,
	Args: cobra.ExactArgs(1),
	RunE: runHome,
}

var moveCmd = &cobra.Command{
	Use:   "move <name> <position>",
	Short: "Move a page within its group",
	Long: `Move a page to another position within its page group. Positions start at 0
as listed by 'appcomposer status'. The first page of the first group is the
home page.`,
	Example: `  appcomposer move Orders 0`,
	Args:    cobra.ExactArgs(2),
	RunE:    runMove,
}

func runRename(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Rename(ctx, &engine.RenameRequest{
			CWD:     cwd,
			Name:    args[0],
			NewName: args[1],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Old == result.New {
			PrintInfo(fmt.Sprintf("%s already has that name", result.Old))
			return nil
		}
		PrintSuccess(fmt.Sprintf("Renamed %s to %s", result.Old, result.New))
		return nil
	})
}

func runHome(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.SetHome(ctx, &engine.SetHomeRequest{CWD: cwd, Name: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Previous == result.Home {
			PrintInfo(fmt.Sprintf("%s is already the home page", result.Home))
			return nil
		}
		PrintSuccess(fmt.Sprintf("%s is now the home page", result.Home))
		return nil
	})
}

func runMove(cmd *cobra.Command, args []string) error {
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: position must be a number, got %q", engine.ErrValidation, args[1])
	}

	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Move(ctx, &engine.MoveRequest{CWD: cwd, Name: args[0], To: to})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Moved %s to position %d", args[0], to))
		items := make([]string, len(result.Order))
		for i, name := range result.Order {
			items[i] = homeBadge(name, name == result.Home)
		}
		PrintNumberedList(items, 1)
		return nil
	})
}
