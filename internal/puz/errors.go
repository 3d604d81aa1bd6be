package puz

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic             = errors.New("puz: wrong file magic; is this a puz file?")
	ErrUnexpectedEndOfInput = errors.New("puz: unexpected end of input")
	ErrBadVersionString     = errors.New("puz: bad version string")
	ErrBadHeaderChecksum    = errors.New("puz: bad header checksum")
	ErrBadMaskedChecksum    = errors.New("puz: bad masked checksum")
	ErrBadFileChecksum      = errors.New("puz: bad file checksum")
	ErrBadSectionChecksum   = errors.New("puz: bad section checksum")
	ErrClueCountMismatch    = errors.New("puz: wrong number of clues")
	ErrMissingClueNumber    = errors.New("puz: missing clue number")
	ErrMissingRebusEntry    = errors.New("puz: missing rebus table entry")
	ErrRebusSizeMismatch    = errors.New("puz: rebus section size mismatch")
	ErrBadTimerSection      = errors.New("puz: bad timer section")
	ErrOutOfBounds          = errors.New("puz: coordinates out of bounds")
	ErrBlackCell            = errors.New("puz: cannot set contents of a black cell")
	ErrSectionTooLarge      = errors.New("puz: section payload exceeds 65535 bytes")
)

// ChecksumError reports a stored checksum that disagrees with the computed one.
// Index is the masked checksum byte for ErrBadMaskedChecksum and Section is the
// section name for ErrBadSectionChecksum.
type ChecksumError struct {
	Kind     error
	Index    int
	Section  string
	Expected uint16
	Computed uint16
}

func (e *ChecksumError) Error() string {
	switch e.Kind {
	case ErrBadMaskedChecksum:
		return fmt.Sprintf("%v at bit %d: expected 0x%02X, got 0x%02X", e.Kind, e.Index, e.Expected, e.Computed)
	case ErrBadSectionChecksum:
		return fmt.Sprintf("%v for %s: expected 0x%04X, got 0x%04X", e.Kind, e.Section, e.Expected, e.Computed)
	}
	return fmt.Sprintf("%v: expected 0x%04X, got 0x%04X", e.Kind, e.Expected, e.Computed)
}

func (e *ChecksumError) Unwrap() error { return e.Kind }

type ClueCountError struct {
	Want   int
	Across int
	Down   int
}

func (e *ClueCountError) Error() string {
	return fmt.Sprintf("%v: expected %d, but the grid has %d across and %d down candidates",
		ErrClueCountMismatch, e.Want, e.Across, e.Down)
}

func (e *ClueCountError) Unwrap() error { return ErrClueCountMismatch }

type MissingClueNumberError struct {
	Index int
}

func (e *MissingClueNumberError) Error() string {
	return fmt.Sprintf("%v for clue index %d", ErrMissingClueNumber, e.Index)
}

func (e *MissingClueNumberError) Unwrap() error { return ErrMissingClueNumber }

type MissingRebusEntryError struct {
	Offset int
	Key    int
}

func (e *MissingRebusEntryError) Error() string {
	return fmt.Sprintf("%v: cell %d references key %d", ErrMissingRebusEntry, e.Offset, e.Key)
}

func (e *MissingRebusEntryError) Unwrap() error { return ErrMissingRebusEntry }

type RebusSizeError struct {
	Want int
	Got  int
}

func (e *RebusSizeError) Error() string {
	return fmt.Sprintf("%v: GRBS has %d bytes, grid has %d cells", ErrRebusSizeMismatch, e.Got, e.Want)
}

func (e *RebusSizeError) Unwrap() error { return ErrRebusSizeMismatch }

type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%v: %q", ErrBadVersionString, e.Version)
}

func (e *VersionError) Unwrap() error { return ErrBadVersionString }
