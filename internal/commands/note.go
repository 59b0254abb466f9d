package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/agenda"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
	"github.com/balkashynov/daybook/internal/tui"
)

// untitledNote is the title given to notes saved without one
const untitledNote = tui.UntitledNote

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "Manage notes",
	}
	cmd.AddCommand(
		newNoteAddCmd(a),
		newNoteListCmd(a),
		newNoteShowCmd(a),
		newNoteEditCmd(a),
		newNotePinCmd(a),
		newNoteRemoveCmd(a),
	)
	return cmd
}

// noteContent reads --content, where "-" means standard input
func noteContent(cmd *cobra.Command) (string, error) {
	v, _ := cmd.Flags().GetString("content")
	if v != "-" {
		return v, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func newNoteAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a note",
		Long: `Add a note. A title or some content is required; a note without a
title is saved as "Untitled". Use --content - to read the body from stdin.

Example:
  echo "- milk\n- eggs" | daybook note add Groceries --content - --tags home --pin`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			content, err := noteContent(cmd)
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" && strings.TrimSpace(content) == "" {
				return errors.New("a note needs a title or some content")
			}
			if title == "" {
				title = untitledNote
			}
			tags, _ := cmd.Flags().GetStringSlice("tags")
			pinned, _ := cmd.Flags().GetBool("pin")

			note := s.AddNote(models.NoteDraft{
				Title:    title,
				Content:  content,
				Tags:     parser.SplitTags(strings.Join(tags, ",")),
				IsPinned: pinned,
			})
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s: %s\n", shortID(note.ID), note.Title)
			return nil
		},
	}
	cmd.Flags().StringP("content", "c", "", "Note body, or - to read stdin")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().Bool("pin", false, "Pin the note")
	return cmd
}

func newNoteListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List notes, pinned first then most recently updated",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			query, _ := cmd.Flags().GetString("search")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			notes := agenda.FilterNotes(s.Notes(), query, tags)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), notes)
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}
			renderNoteTable(cmd.OutOrStdout(), notes)
			if all := agenda.Tags(s.Notes(), func(n models.Note) []string { return n.Tags }); len(all) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("\ntags: "+hashTags(all)))
			}
			return nil
		},
	}
	cmd.Flags().StringP("search", "q", "", "Filter by text")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Filter by tags (any of)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			note, err := s.FindNote(args[0])
			if err != nil {
				return fmt.Errorf("note %q: %w", args[0], err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), note)
			}

			w := cmd.OutOrStdout()
			title := note.Title
			if note.IsPinned {
				title = "* " + title
			}
			fmt.Fprintln(w, headingStyle.Render(title))
			if len(note.Tags) > 0 {
				fmt.Fprintln(w, mutedStyle.Render(hashTags(note.Tags)))
			}
			if note.Content != "" {
				fmt.Fprintf(w, "\n%s\n", note.Content)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newNoteEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note",
		Long: `Edit a note.

Without flags the note opens in the editor, which saves automatically
shortly after you stop typing and once more on exit. With flags only the
given fields change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			note, err := s.FindNote(args[0])
			if err != nil {
				return fmt.Errorf("note %q: %w", args[0], err)
			}

			if !localFlagsChanged(cmd) {
				saved, err := tui.RunNoteEditor(s, note, a.tuiOptions())
				if err != nil {
					return err
				}
				if err := a.saved(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved note %s: %s\n", shortID(saved.ID), saved.Title)
				return nil
			}

			var patch models.NotePatch
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				patch.Title = &v
			}
			if cmd.Flags().Changed("content") {
				v, err := noteContent(cmd)
				if err != nil {
					return err
				}
				patch.Content = &v
			}
			if cmd.Flags().Changed("tags") {
				v, _ := cmd.Flags().GetStringSlice("tags")
				tags := parser.SplitTags(strings.Join(v, ","))
				patch.Tags = &tags
			}
			title, content := note.Title, note.Content
			if patch.Title != nil {
				title = *patch.Title
			}
			if patch.Content != nil {
				content = *patch.Content
			}
			if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
				return errors.New("a note needs a title or some content")
			}
			if strings.TrimSpace(title) == "" {
				patch.Title = ptr(untitledNote)
			}

			updated, _ := s.UpdateNote(note.ID, patch)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s: %s\n", shortID(updated.ID), updated.Title)
			return nil
		},
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("content", "c", "", "New body, or - to read stdin")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Replace tags")
	return cmd
}

func newNotePinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			note, err := s.FindNote(args[0])
			if err != nil {
				return fmt.Errorf("note %q: %w", args[0], err)
			}
			updated, _ := s.UpdateNote(note.ID, models.NotePatch{IsPinned: ptr(!note.IsPinned)})
			if err := a.saved(); err != nil {
				return err
			}
			verb := "Unpinned"
			if updated.IsPinned {
				verb = "Pinned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s note %s: %s\n", verb, shortID(updated.ID), updated.Title)
			return nil
		},
	}
}

func newNoteRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			note, err := s.FindNote(args[0])
			if err != nil {
				return fmt.Errorf("note %q: %w", args[0], err)
			}
			s.DeleteNote(note.ID)
			if err := a.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s: %s\n", shortID(note.ID), note.Title)
			return nil
		},
	}
}
