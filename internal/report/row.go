package report

import (
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// Header is the column header shared by every format.
var Header = []string{"Username", "User ID", "Created", "Last Access"}

// Row is one exported session.
type Row struct {
	Username   string `json:"username" yaml:"username"`
	UserID     string `json:"userId" yaml:"userId"`
	Created    string `json:"created" yaml:"created"`
	LastAccess string `json:"lastAccess" yaml:"lastAccess"`
}

// Cells returns the row in Header order.
func (r Row) Cells() []string {
	return []string{r.Username, r.UserID, r.Created, r.LastAccess}
}

// NewRow maps a session to a row. Timestamps are rendered in loc.
func NewRow(s domain.Session, loc *time.Location) (Row, error) {
	if err := s.Validate(); err != nil {
		return Row{}, err
	}
	return Row{
		Username:   *s.Username,
		UserID:     *s.UserID,
		Created:    domain.FormatTimestamp(s.CreatedAt(), loc),
		LastAccess: domain.FormatTimestamp(s.LastAccessAt(), loc),
	}, nil
}

// buildRows maps every session, stopping at the first malformed one.
func buildRows(sessions []domain.Session, loc *time.Location) ([]Row, error) {
	rows := make([]Row, 0, len(sessions))
	for _, s := range sessions {
		row, err := NewRow(s, loc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
