package report

import (
	"io"
	"strings"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// Format represents the report format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formats lists the supported formats, default first.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatTable}

// ParseFormat parses a case-insensitive format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatCSV, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", domain.ErrConfiguration.WithDetailsf("unknown format %q (want csv, json, yaml or table)", s)
}

// Formatter writes sessions to w and returns the number of data rows written.
type Formatter interface {
	Format(w io.Writer, sessions []domain.Session) (int, error)
}

// Option configures a formatter.
type Option func(*options)

type options struct {
	loc *time.Location
}

// WithLocation sets the zone timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format, opts ...Option) (Formatter, error) {
	o := options{loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = time.Local
	}

	switch format {
	case FormatCSV, "":
		return &CSVFormatter{Location: o.loc}, nil
	case FormatJSON:
		return &JSONFormatter{Location: o.loc}, nil
	case FormatYAML:
		return &YAMLFormatter{Location: o.loc}, nil
	case FormatTable:
		return &TableFormatter{Location: o.loc}, nil
	default:
		return nil, domain.ErrConfiguration.WithDetailsf("unknown format %q", format)
	}
}
