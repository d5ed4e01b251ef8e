package domain

import "errors"

// ErrUnknownAge the birth date is the import placeholder, so no age can be derived
var ErrUnknownAge = errors.New("patient age is unknown (placeholder birth date)")
