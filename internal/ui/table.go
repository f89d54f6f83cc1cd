package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"loomd/internal/wire"
)

// SessionTable renders the result of ListTerminals. health maps a
// terminal's tmux session name to a "reachable"/"missing" string; pass
// nil to render every row as "unknown" without querying tmux.
func SessionTable(terminals []wire.TerminalInfo, health map[string]string) string {
	if len(terminals) == 0 {
		return Dim("No terminals found.")
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleColoredBright)
	t.Style().Color.Header = text.Colors{text.FgHiWhite, text.Bold}
	t.Style().Color.Row = text.Colors{text.FgWhite}
	t.Style().Color.RowAlternate = text.Colors{text.FgHiBlack}

	t.AppendHeader(table.Row{
		Bold("ID"),
		Bold("Name"),
		Bold("Tmux Session"),
		Bold("Status"),
		Bold("Created"),
		Bold("Working Dir"),
	})

	for _, term := range terminals {
		status := "unknown"
		if health != nil {
			if s, ok := health[term.TmuxSession]; ok {
				status = s
			}
		}

		t.AppendRow(table.Row{
			Highlight(shortID(term.ID)),
			Title(term.Name),
			term.TmuxSession,
			FormatTmuxStatus(status),
			formatCreated(term.CreatedAt),
			formatWorkingDir(term.WorkingDir),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 12},
		{Number: 2, WidthMax: 20},
		{Number: 3, WidthMax: 24},
		{Number: 4, WidthMax: 14},
		{Number: 5, WidthMax: 18},
		{Number: 6, WidthMax: 30},
	})

	return t.Render()
}

// TerminalDetail renders a single terminal's full record, for places where
// a table row would truncate too much. No cmd/loom subcommand calls it.
func TerminalDetail(term wire.TerminalInfo, status string) string {
	var b strings.Builder
	b.WriteString(Title("Terminal") + "\n")
	b.WriteString(HorizontalLine(40) + "\n")
	fmt.Fprintf(&b, "%-14s %s\n", Bold("ID:"), term.ID)
	fmt.Fprintf(&b, "%-14s %s\n", Bold("Name:"), term.Name)
	fmt.Fprintf(&b, "%-14s %s\n", Bold("Tmux Session:"), term.TmuxSession)
	fmt.Fprintf(&b, "%-14s %s\n", Bold("Status:"), FormatTmuxStatus(status))
	fmt.Fprintf(&b, "%-14s %s\n", Bold("Created:"), formatCreated(term.CreatedAt))
	fmt.Fprintf(&b, "%-14s %s\n", Bold("Working Dir:"), formatWorkingDir(term.WorkingDir))
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func formatCreated(epoch int64) string {
	return Dim(time.Unix(epoch, 0).Format("2006-01-02 15:04"))
}

func formatWorkingDir(dir *string) string {
	if dir == nil || *dir == "" {
		return Dim("—")
	}
	path := *dir
	if len(path) > 30 {
		parts := strings.Split(path, "/")
		if len(parts) > 1 {
			return Dim(".../" + parts[len(parts)-1])
		}
	}
	return Dim(path)
}
