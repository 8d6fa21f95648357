package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// JSONFormatter formats sessions as an indented JSON array.
type JSONFormatter struct {
	Location *time.Location
}

// Format formats sessions as JSON.
func (f *JSONFormatter) Format(w io.Writer, sessions []domain.Session) (int, error) {
	rows, err := buildRows(sessions, f.Location)
	if err != nil {
		return 0, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
