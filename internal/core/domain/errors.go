package domain

import "errors"

// ErrInvalidPersonaID is returned when a persona address is malformed.
var ErrInvalidPersonaID = errors.New("invalid persona id")
