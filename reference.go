package scddb

import "context"

// ReferenceKind names a lookup table of the catalogue.
type ReferenceKind string

// ReferenceKind constants.
const (
	RefSetType     ReferenceKind = "set_type"
	RefDanceType   ReferenceKind = "dance_type"
	RefDanceFormat ReferenceKind = "dance_format"
)

// ReferenceKinds lists every lookup table.
var ReferenceKinds = []ReferenceKind{RefSetType, RefDanceType, RefDanceFormat}

// Valid reports whether k names a known lookup table.
func (k ReferenceKind) Valid() bool {
	for _, kind := range ReferenceKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reference is a named row of a lookup table.
type Reference struct {
	ID   int64         `json:"id"`
	Kind ReferenceKind `json:"kind"`
	Name string        `json:"name"`
}

// ReferenceService resolves lookup names to surrogate IDs.
type ReferenceService interface {
	// FindOrCreateReference returns the ID of the named row, creating it
	// when it does not exist. Returns EINVALID for an empty name or an
	// unknown kind.
	FindOrCreateReference(ctx context.Context, kind ReferenceKind, name string) (int64, error)

	// FindReferences lists the rows of a lookup table ordered by name.
	FindReferences(ctx context.Context, kind ReferenceKind) ([]*Reference, error)
}

// DanceReferences holds the lookup IDs of one dance. Zero means the dance
// has no value for that table.
type DanceReferences struct {
	DanceType   int64
	SetType     int64
	DanceFormat int64
}

// ResolveDanceReferences looks up (creating as needed) the dance type,
// set type and set format rows a dance points at.
func ResolveDanceReferences(ctx context.Context, svc ReferenceService, d *Dance) (DanceReferences, error) {
	var refs DanceReferences
	var err error
	if d.DanceType != "" {
		if refs.DanceType, err = svc.FindOrCreateReference(ctx, RefDanceType, d.DanceType); err != nil {
			return refs, err
		}
	}
	if d.Formation != "" {
		if refs.SetType, err = svc.FindOrCreateReference(ctx, RefSetType, d.Formation); err != nil {
			return refs, err
		}
	}
	if d.SetFormat > 0 {
		if refs.DanceFormat, err = svc.FindOrCreateReference(ctx, RefDanceFormat, SetFormatName(d.SetFormat)); err != nil {
			return refs, err
		}
	}
	return refs, nil
}
