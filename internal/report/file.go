package report

import (
	"fmt"
	"os"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// WriteFile creates or truncates path and writes sessions to it with f.
// The file is closed on every path; a close failure is reported when the
// write itself succeeded. Partial output is left on disk.
func WriteFile(path string, f Formatter, sessions []domain.Session) (n int, err error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	return f.Format(file, sessions)
}
