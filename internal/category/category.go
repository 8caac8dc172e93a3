package category

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateName is returned when the name is already taken by any
	// category, active or not. Names are compared case-sensitively.
	ErrDuplicateName = errors.New("category name already exists")
	ErrEmptyName     = errors.New("category name is required")
)

// Category is a user-defined investment bucket such as a brokerage account.
// Categories are never deleted, only deactivated.
type Category struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}
