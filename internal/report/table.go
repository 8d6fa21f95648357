package report

import (
	"io"
	"text/tabwriter"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// TableFormatter formats sessions as an aligned plain-text table.
type TableFormatter struct {
	Location *time.Location
}

// Format formats sessions as a table.
func (f *TableFormatter) Format(w io.Writer, sessions []domain.Session) (int, error) {
	rows, err := buildRows(sessions, f.Location)
	if err != nil {
		return 0, err
	}

	t := &Table{}
	t.SetHeaders(Header...)
	for _, r := range rows {
		t.AddRow(r.Cells()...)
	}
	if err := t.Render(w); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
// Empty cells are shown as "-".
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(t.Headers) > 0 {
		if err := writeLine(tw, t.Headers); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := writeLine(tw, row); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func writeLine(w io.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if cell == "" {
			cell = "-"
		}
		if _, err := io.WriteString(w, cell); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
