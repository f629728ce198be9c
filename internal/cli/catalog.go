package cli

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/spf13/cobra"
)

var (
	catalogKind string
	catalogAll  bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the templates that can be added",
	Long: `List catalog templates with their selection state in the current session.

Hidden templates and templates the session framework does not support are
left out unless --all is given.`,
	Example: `  appcomposer catalog
  appcomposer catalog --kind page
  appcomposer catalog --all --json`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogKind, "kind", "k", "", "Only list templates of this kind (page or feature)")
	catalogCmd.Flags().BoolVarP(&catalogAll, "all", "a", false, "Include hidden and unsupported templates")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	kind := catalog.Kind(catalogKind)
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q, want page or feature", engine.ErrValidation, catalogKind)
	}

	return runWithEngine(func(ctx context.Context, eng *engine.Engine, cwd string) error {
		result, err := eng.Catalog(ctx, &engine.CatalogRequest{
			CWD:  cwd,
			Kind: kind,
			All:  catalogAll,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		warnDrift(result.Drift)

		if len(result.Templates) == 0 {
			PrintEmptyState("No templates found")
			return nil
		}

		PrintSection(fmt.Sprintf("Templates (%d)", len(result.Templates)))
		rows := make([][]string, 0, len(result.Templates))
		for _, t := range result.Templates {
			mark := ""
			if t.Selected {
				mark = "✓"
			}
			var notes []string
			if t.Hidden {
				notes = append(notes, "hidden")
			}
			if !t.Supported {
				notes = append(notes, "unsupported")
			}
			note := ""
			if len(notes) > 0 {
				note = fmt.Sprint(notes)
			}
			rows = append(rows, []string{mark, t.Identity, string(t.Kind), t.Name, note})
		}
		PrintTable([]string{"", "TEMPLATE", "KIND", "NAME", "NOTES"}, rows)

		if !result.HasSession {
			fmt.Fprintln(stdout)
			PrintHint("No session for this project yet. Run 'appcomposer init' to start one.")
		}
		return nil
	})
}
