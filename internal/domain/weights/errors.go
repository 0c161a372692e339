package weights

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidVector = errors.New("invalid weight vector")
)
