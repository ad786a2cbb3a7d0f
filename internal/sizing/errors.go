package sizing

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates that members or stock is empty.
	ErrEmptyInput = errors.New("sizing: members and stock must be non-empty")
	// ErrCatalogTooSmall indicates fewer stock entries than members.
	ErrCatalogTooSmall = errors.New("sizing: catalog has fewer entries than members")
	// ErrDegenerateCapacity indicates a zero or negative stock capacity.
	ErrDegenerateCapacity = errors.New("sizing: degenerate stock capacity")
	// ErrNonFinite indicates a NaN, infinite or overflowing intermediate value.
	ErrNonFinite = errors.New("sizing: non-finite intermediate value")
	// ErrInvalidCount indicates a composite count below one.
	ErrInvalidCount = errors.New("sizing: composite count below one")
)

// MemberError reports a sizing failure for one member. Other members are
// still sized.
type MemberError struct {
	MemberID   int
	MaterialID int
	Err        error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("member %d (material %d): %v", e.MemberID, e.MaterialID, e.Err)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}
