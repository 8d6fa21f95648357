package report

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// YAMLFormatter formats sessions as a YAML sequence.
type YAMLFormatter struct {
	Location *time.Location
}

// Format formats sessions as YAML.
func (f *YAMLFormatter) Format(w io.Writer, sessions []domain.Session) (int, error) {
	rows, err := buildRows(sessions, f.Location)
	if err != nil {
		return 0, err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(rows); err != nil {
		return 0, err
	}
	if err := encoder.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
