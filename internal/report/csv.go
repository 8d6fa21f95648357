package report

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// CSVFormatter writes a header line and one record per session.
// Values get standard CSV quoting and nothing else.
type CSVFormatter struct {
	Location *time.Location
}

// Format streams the sessions. On a malformed session the records written
// so far are flushed and the FormatError is returned with their count.
func (f *CSVFormatter) Format(w io.Writer, sessions []domain.Session) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, err
	}

	n := 0
	for _, s := range sessions {
		row, err := NewRow(s, f.Location)
		if err != nil {
			cw.Flush()
			return n, err
		}
		if err := cw.Write(row.Cells()); err != nil {
			return n, err
		}
		n++
	}

	cw.Flush()
	return n, cw.Error()
}
