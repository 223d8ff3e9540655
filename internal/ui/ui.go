// Package ui renders d1 command output in the terminal.
package ui

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/kiurchv/go-d1/row"
)

var (
	// Out and Err receive all output; tests swap them for buffers.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// NullText is shown for NULL and absent cells.
const NullText = "NULL"

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header
func PrintSection(title string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	section := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)

	fmt.Fprintln(Out, section)
}

// PrintChanges reports the number of rows a statement changed.
func PrintChanges(n int64) {
	noun := "rows"
	if n == 1 {
		noun = "row"
	}
	color.New(color.FgGreen, color.Bold).Fprintf(Out, "%d %s changed\n", n, noun)
}

// TableData flattens a result set into a header row followed by one row of
// cells per record.
func TableData(rows *row.Rows) pterm.TableData {
	header := append([]string(nil), rows.Columns().Names()...)
	data := pterm.TableData{header}
	for r := range rows.All() {
		cells := make([]string, r.FieldCount())
		for i := range cells {
			f, _ := r.Field(i)
			cells[i] = FormatCell(f.Value())
		}
		data = append(data, cells)
	}
	return data
}

// PrintRows prints a result set as a table followed by a row count.
func PrintRows(rows *row.Rows) error {
	n := rows.Len()
	if n == 0 {
		PrintInfo("no rows")
		return nil
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(TableData(rows)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, table)
	fmt.Fprintln(Out, SecondaryStyle.Render(countRows(n)))
	return nil
}

// FormatCell renders one host value. Whole numbers print without a
// fraction and blobs print as SQLite hex literals.
func FormatCell(v any, ok bool) string {
	if !ok || v == nil {
		return NullText
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []byte:
		return "x'" + strings.ToUpper(hex.EncodeToString(x)) + "'"
	default:
		return fmt.Sprint(x)
	}
}

func countRows(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
