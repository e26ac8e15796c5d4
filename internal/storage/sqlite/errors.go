package sqlite

import (
	"fmt"
	"strings"

	"github.com/bugdash/bugdash/internal/storage"
)

// translateErr maps SQLite constraint failures onto the package sentinels so
// callers can use errors.Is without knowing the driver. The driver reports
// constraint violations by message; the failed-column list distinguishes a
// sequence race from other uniqueness violations.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "bugs.project_id") && strings.Contains(msg, "bugs.number") {
			return fmt.Errorf("%w: %v", storage.ErrSequenceConflict, err)
		}
		return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return err
}
