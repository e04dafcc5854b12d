package seal

import "errors"

// ErrInvalidDimension is returned when a seal is requested with a
// non-positive width or height.
var ErrInvalidDimension = errors.New("invalid seal dimension")
