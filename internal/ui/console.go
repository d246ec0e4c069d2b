package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/liggitt/tabwriter"
	"golang.org/x/term"
)

// ANSI escape sequences used for console styling.
const (
	ColorReset  = "\x1b[0m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorRed    = "\x1b[31m"
	ColorBlue   = "\x1b[34m"

	// Semantic aliases used by table and status output.
	ColorHealthy = ColorGreen
	ColorWarning = ColorYellow
	ColorFailure = ColorRed
	ColorNotice  = ColorBlue
)

const (
	tabwriterMinimumCellWidthConstant = 0
	tabwriterTabWidthConstant         = 4
	tabwriterCellPaddingConstant      = 2
	tabwriterPaddingCharacterConstant = ' '
	tableColumnSeparatorConstant      = "\t"
)

// Colorize wraps a value in ANSI escapes when color output is enabled.
func Colorize(enabled bool, value string, color string) string {
	if !enabled || len(value) == 0 || len(color) == 0 {
		return value
	}
	// Hide ANSI sequences from tabwriter width calculations so columns align.
	escapeMarker := string([]byte{tabwriter.Escape})
	return escapeMarker + color + escapeMarker + value + escapeMarker + ColorReset + escapeMarker
}

// WriterSupportsColor reports whether the writer is an interactive terminal.
func WriterSupportsColor(writer io.Writer) bool {
	fileWriter, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(fileWriter.Fd()))
}

// NewTableWriter creates a tabwriter with the default spacing settings.
func NewTableWriter(output io.Writer, stripEscape bool) *tabwriter.Writer {
	var writerFlags uint
	if stripEscape {
		writerFlags = tabwriter.StripEscape
	}
	return tabwriter.NewWriter(output, tabwriterMinimumCellWidthConstant, tabwriterTabWidthConstant, tabwriterCellPaddingConstant, tabwriterPaddingCharacterConstant, writerFlags)
}

// WriteTable renders a tab-separated table with optional headers.
func WriteTable(output io.Writer, stripEscape bool, headers []string, rows [][]string) error {
	tableWriter := NewTableWriter(output, stripEscape)
	if len(headers) > 0 {
		if _, writeError := fmt.Fprintln(tableWriter, strings.Join(headers, tableColumnSeparatorConstant)); writeError != nil {
			return writeError
		}
	}
	for _, row := range rows {
		if _, writeError := fmt.Fprintln(tableWriter, strings.Join(row, tableColumnSeparatorConstant)); writeError != nil {
			return writeError
		}
	}
	return tableWriter.Flush()
}
