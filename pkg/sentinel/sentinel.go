package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services and transport can translate them without knowing which
// backend produced them.
//
// - ErrNotFound: entity does not exist in the store
// - ErrConflict: another actor holds the resource or moved it out of the
//   expected state first (edit lease held, task already taken)
// - ErrInvalidState: entity in the wrong state for the requested operation
// - ErrUnauthorized: missing, expired or forged credentials
// - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)
