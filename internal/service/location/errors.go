package location

import "errors"

var (
	ErrStopNotFound   = errors.New("stop not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
