package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/store"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks, events and notes",
		Long: `Search every collection at once.

Matching is a case-insensitive substring test over titles, descriptions,
note content, tags and event locations. Results keep insertion order;
--limit caps each collection separately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			limit, _ := cmd.Flags().GetInt("limit")

			res := s.Search(query)
			if limit > 0 {
				res.Tasks = capped(res.Tasks, limit)
				res.Events = capped(res.Events, limit)
				res.Notes = capped(res.Notes, limit)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return renderSearchJSON(cmd, query, res)
			}
			renderSearchTable(cmd, a, s, query, res)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 0, "Limit results per collection")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func capped[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// renderSearchJSON outputs search results as JSON
func renderSearchJSON(cmd *cobra.Command, query string, res store.Results) error {
	type searchResult struct {
		Query  string         `json:"query"`
		Count  int            `json:"count"`
		Tasks  []models.Task  `json:"tasks"`
		Events []models.Event `json:"events"`
		Notes  []models.Note  `json:"notes"`
	}
	return printJSON(cmd.OutOrStdout(), searchResult{
		Query:  query,
		Count:  res.Len(),
		Tasks:  res.Tasks,
		Events: res.Events,
		Notes:  res.Notes,
	})
}

// renderSearchTable outputs search results grouped by collection
func renderSearchTable(cmd *cobra.Command, a *app, s *store.Store, query string, res store.Results) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Search results for '%s' (%d found):\n", query, res.Len())
	if res.Len() == 0 {
		fmt.Fprintln(w, "Nothing matches your search.")
		return
	}

	if len(res.Tasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Tasks (%d)", len(res.Tasks))))
		renderTaskTable(w, res.Tasks, a.now())
	}
	if len(res.Events) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Events (%d)", len(res.Events))))
		renderEventTable(w, res.Events, s.Settings())
	}
	if len(res.Notes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Notes (%d)", len(res.Notes))))
		renderNoteTable(w, res.Notes)
	}
}
