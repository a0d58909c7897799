package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and engine adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: conditional insert refused because the row already exists
// - ErrDecode: payload could not be decoded as an image
// - ErrUnavailable: external engine or store temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrDecode      = errors.New("undecodable image")
	ErrUnavailable = errors.New("unavailable")
)
