package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := l.Add(cmd.Context(), title)
			if err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("added #%d", it.Identifier))
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle completion of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := l.ToggleComplete(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "open"
			if it.Complete {
				state = "done"
			}
			ui.OK(a.stdout, fmt.Sprintf("#%d marked %s", it.Identifier, state))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := l.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("removed #%d %s", it.Identifier, it.Title))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Change the title of an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usagef("edit: empty title")
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := l.Rename(cmd.Context(), id, title)
			if err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("renamed #%d", it.Identifier))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON, flat bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items, open first, most recently changed first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			open, done := l.IncompleteView(), l.CompleteView()

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Incomplete []model.Item `json:"incomplete"`
					Complete   []model.Item `json:"complete"`
				}{open, done})
			}

			var lines []string
			lines = append(lines, header(len(done), len(open)))
			lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(len(done), len(done)+len(open), 28)))
			lines = append(lines, "")
			if flat {
				lines = append(lines, itemLines(append(open, done...))...)
			} else {
				lines = append(lines, groupLines(open, done)...)
			}
			lines = append(lines, "")
			lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `todo add Buy milk`"))
			ui.Panel(a.stdout, lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print both views as JSON")
	cmd.Flags().BoolVar(&flat, "flat", false, "one list instead of open/done sections")
	return cmd
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive list (a add, space toggle, d delete, e edit, q quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := ui.RunInteractive(cmd.Context(), l); err != nil {
				return fmt.Errorf("ui: %w", err)
			}
			return nil
		},
	}
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the data and config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := a.cfg.Path
			if cfgPath == "" {
				cfgPath = a.flags.configPath
				if cfgPath == "" {
					cfgPath = config.DefaultPath()
				}
				cfgPath += " (not found, using defaults)"
			}
			fmt.Fprintf(a.stdout, "data:   %s\n", a.file.Path())
			fmt.Fprintf(a.stdout, "config: %s\n", cfgPath)
			return nil
		},
	}
}
