// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	ErrMissingColumn   = errors.New("missing required column")
	ErrSchemaDrift     = errors.New("unexpected source layout")
	ErrMalformedRecord = errors.New("malformed record")
	ErrMalformedField  = errors.New("malformed field")
	ErrEmptyIdentifier = errors.New("empty identifier")
	ErrDuplicateSample = errors.New("duplicate sample")
	ErrStoreNotLoaded  = errors.New("store not loaded, run `trialdb load` first")
)
