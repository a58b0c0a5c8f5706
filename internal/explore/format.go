package explore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Format string

const (
	FormatText    Format = "text"
	FormatCSV     Format = "csv"
	FormatTabular Format = "tabular"
)

var ErrUnknownFormat = errors.New("unknown output format")

func Formats() []Format { return []Format{FormatText, FormatCSV, FormatTabular} }

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of text, csv, tabular)", ErrUnknownFormat, s)
}

// styleText renders rows aligned on whitespace only, without borders or separators.
var styleText = func() table.Style {
	s := table.StyleDefault
	s.Name = "StyleText"
	s.Options = table.Options{}
	s.Format.Header = text.FormatDefault
	return s
}()

// styleTabular is the psql grid: "+---+" borders and a "|---+---|" header rule.
var styleTabular = func() table.Style {
	s := table.StyleDefault
	s.Name = "StyleTabular"
	s.Box.LeftSeparator = "|"
	s.Box.MiddleSeparator = "+"
	s.Box.RightSeparator = "|"
	s.Format.Header = text.FormatDefault
	return s
}()

func FormatOutput(t *Table, format Format, showHeaders bool) (string, error) {
	if format == FormatCSV {
		return renderCSV(t, showHeaders)
	}
	tw := newWriter(t, showHeaders)
	switch format {
	case FormatText:
		tw.SetStyle(styleText)
		return trimLines(tw.Render()), nil
	case FormatTabular:
		tw.SetStyle(styleTabular)
		return tw.Render(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// renderCSV writes RFC 4180 records; quotes inside fields are doubled. The result
// has no trailing newline, like the other formats.
func renderCSV(t *Table, showHeaders bool) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if showHeaders {
		if err := w.Write(t.Columns()); err != nil {
			return "", err
		}
	}
	if err := t.Each(func(_ int, row []string) error { return w.Write(row) }); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func newWriter(t *Table, showHeaders bool) table.Writer {
	tw := table.NewWriter()
	if showHeaders {
		tw.AppendHeader(toRow(t.Columns()))
	}
	_ = t.Each(func(_ int, row []string) error {
		tw.AppendRow(toRow(row))
		return nil
	})
	return tw
}

func toRow(cells []string) table.Row {
	r := make(table.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}
	return r
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
