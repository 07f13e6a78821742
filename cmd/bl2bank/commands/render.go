// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	weaponStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// writeTable writes rows under headers. On a terminal it draws a
// bordered lipgloss table; otherwise columns are tab-aligned plain text
// so scripts can split them.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	if !cli.IsTerminal(w) {
		tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	rendered := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Render()
	_, err := fmt.Fprintln(w, rendered)
	return err
}

// styleKind colors a kind name on a terminal.
func styleKind(w io.Writer, kind string) string {
	if !cli.IsTerminal(w) {
		return kind
	}
	switch kind {
	case "item":
		return itemStyle.Render(kind)
	case "weapon":
		return weaponStyle.Render(kind)
	}
	return kind
}

// highlightMatch emphasizes the runes of value at positions on a
// terminal. positions must be ascending rune offsets.
func highlightMatch(w io.Writer, value string, positions []int) string {
	if !cli.IsTerminal(w) || len(positions) == 0 {
		return value
	}
	var builder strings.Builder
	next := 0
	for offset, r := range []rune(value) {
		if next < len(positions) && positions[next] == offset {
			builder.WriteString(matchStyle.Render(string(r)))
			next++
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
