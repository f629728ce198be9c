package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/spf13/cobra"
)

var sessionRmDryRun bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
}

var sessionLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored sessions",
	Args:    cobra.NoArgs,
	RunE:    runSessionLs,
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id]",
	Short: "Delete a session",
	Long: `Delete a stored session. Without an ID the session of the current project is
deleted. An ID may be shortened to any unique prefix.`,
	Example: `  appcomposer session rm
  appcomposer session rm 3f9a2c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionRm,
}

func init() {
	sessionRmCmd.Flags().BoolVar(&sessionRmDryRun, "dry-run", false, "Show which session would be deleted")
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func runSessionLs(cmd *cobra.Command, args []string) error {
	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.ListSessions(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Sessions) == 0 {
			PrintEmptyState("No sessions")
			return nil
		}

		PrintSection(fmt.Sprintf("Sessions (%d)", len(result.Sessions)))
		rows := make([][]string, 0, len(result.Sessions))
		for _, s := range result.Sessions {
			pending := ""
			if s.Pending {
				pending = "pending edit"
			}
			rows = append(rows, []string{
				state.ShortID(s.SessionID),
				s.ProjectPath,
				s.ProjectType,
				fmt.Sprint(s.Instances),
				s.UpdatedAt.Local().Format("2006-01-02 15:04"),
				pending,
			})
		}
		PrintTable([]string{"ID", "PROJECT", "TYPE", "INSTANCES", "UPDATED", ""}, rows)
		return nil
	})
}

func runSessionRm(cmd *cobra.Command, args []string) error {
	var id string
	if len(args) == 1 {
		id = args[0]
	}

	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.DeleteSession(ctx, &engine.DeleteSessionRequest{
			CWD:       cwd,
			SessionID: id,
			DryRun:    sessionRmDryRun,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if !result.Deleted {
			PrintInfo(fmt.Sprintf("Would delete session %s (%s)", state.ShortID(result.SessionID), result.ProjectPath))
			return nil
		}
		PrintSuccess(fmt.Sprintf("Deleted session %s", state.ShortID(result.SessionID)))
		return nil
	})
}
