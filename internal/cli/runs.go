package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

// runsCommand creates the command for inspecting past builds.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the history of site builds",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	limit := 20
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := c.withStore(cmd.Context(), func(ctx context.Context, s store.Store) ([]*store.Run, error) {
				return s.List(ctx, limit)
			})
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(runsTable(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "number of runs to show")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the per-dictionary results of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := c.withStore(cmd.Context(), func(ctx context.Context, s store.Store) ([]*store.Run, error) {
				r, err := s.Get(ctx, args[0])
				if err != nil || r == nil {
					return nil, err
				}
				return []*store.Run{r}, nil
			})
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return errors.New(errors.ErrCodeNotFound, "run %s not found", args[0])
			}
			printRun(runs[0])
			return nil
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, store.Store) ([]*store.Run, error)) ([]*store.Run, error) {
	s, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return fn(ctx, s)
}

// runsTable renders runs as a bordered table.
func runsTable(runs []*store.Run) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		pages, figures, errs := r.Totals()
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			string(r.Kind),
			string(r.Status),
			strconv.Itoa(len(r.Dictionaries)),
			strconv.Itoa(pages),
			strconv.Itoa(figures),
			strconv.Itoa(errs),
			r.Duration().Round(time.Second).String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Run", "Started", "Kind", "Status", "Dicts", "Pages", "Figures", "Errors", "Took").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleDim
			case 3:
				return statusStyle(runs[row].Status)
			case 4, 5, 6, 7:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// printRun prints one run with its dictionary results.
func printRun(r *store.Run) {
	printKeyValue("Run", r.ID)
	printKeyValue("Kind", string(r.Kind))
	printKeyValue("Status", statusStyle(r.Status).Render(string(r.Status)))
	printKeyValue("Started", r.StartedAt.Local().Format(time.RFC1123))
	printKeyValue("Duration", r.Duration().Round(time.Millisecond).String())
	printKeyValue("Output", r.OutputPath)
	if r.Generator != "" {
		printKeyValue("Generator", r.Generator)
	}
	if r.TestMode {
		printKeyValue("Mode", "test")
	}
	printRunStats(r)

	for _, d := range r.Dictionaries {
		line := fmt.Sprintf("%s: %d pages, %d figures in %s", d.Name, d.Pages, d.Figures, d.Duration.Round(time.Millisecond))
		if len(d.Errors) == 0 {
			printSuccess("%s", line)
			continue
		}
		printError("%s", line)
		for _, e := range d.Errors {
			printDetail("%s", e)
		}
	}
}
