package cli

import (
	"fmt"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

const maxTitleWidth = 80

func header(done, pending int) string {
	t := ui.Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, "✔"), done,
		ui.C(t.Pending, "•"), pending,
		ui.C(t.Accent, "Total"), done+pending,
	)
}

func itemLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	t := ui.Current()
	out := make([]string, 0, len(items))
	for _, it := range items {
		box, c := t.BoxUnchecked, t.Muted
		if it.Complete {
			box, c = t.BoxChecked, t.Success
		}
		title := []rune(it.Title)
		if len(title) > maxTitleWidth {
			title = append(title[:maxTitleWidth-3], []rune("...")...)
		}
		out = append(out, fmt.Sprintf("%s %s %s %s",
			ui.C(t.Muted, fmt.Sprintf("%3s", fmt.Sprintf("#%d", it.Identifier))),
			ui.C(c, box),
			string(title),
			ui.C(t.Muted, it.ModifiedDate.Local().Format("2006-01-02 15:04")),
		))
	}
	return out
}

func groupLines(open, done []model.Item) []string {
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(open) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, itemLines(open)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, itemLines(done)...)
	}
	return lines
}
