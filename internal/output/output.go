// Package output renders query results for the command line.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, yaml or csv)", s)
}

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// Render writes payload in the structured formats, or tables in the tabular ones.
func Render(w io.Writer, f Format, payload interface{}, tables ...Table) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, tables)
	case FormatTable, "":
		return writeTables(w, tables)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// writeCSV writes every table as its own header plus rows block, separated by a blank line.
func writeCSV(w io.Writer, tables []Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
	}
	return nil
}

func writeTables(w io.Writer, tables []Table) error {
	for i, t := range tables {
		var sb strings.Builder
		if i > 0 {
			sb.WriteString("\n")
		}
		if t.Title != "" {
			sb.WriteString(titleStyle.Render(t.Title))
			sb.WriteString("\n")
		}
		if len(t.Rows) == 0 {
			sb.WriteString("(no rows)\n")
		} else {
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers(t.Header...).
				Rows(t.Rows...)
			sb.WriteString(tbl.String())
			sb.WriteString("\n")
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
