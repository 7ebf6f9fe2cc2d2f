// Package zdberr defines the sentinel error kinds shared across the
// engine's layers (page, wal, btree, pager, zdb).
package zdberr

import "errors"

var (
	// ErrOutOfSpace is returned by Page.Insert when a payload does not
	// fit even after the caller's defragment attempt.
	ErrOutOfSpace = errors.New("zdb: page out of space")

	// ErrOutOfBounds is returned by Page.Delete when a slot index is not
	// within the slot table. Page.Get reports such a slot as absent
	// instead.
	ErrOutOfBounds = errors.New("zdb: slot index out of bounds")

	// ErrValueTooLarge is returned by Set when a value exceeds maxValueSize.
	ErrValueTooLarge = errors.New("zdb: value exceeds maximum size")

	// ErrBadHeader is returned when the WAL magic, version, or header
	// checksum does not validate.
	ErrBadHeader = errors.New("zdb: bad wal header")

	// ErrBadChecksum is returned when a WAL record's CRC does not match
	// its recomputed value.
	ErrBadChecksum = errors.New("zdb: wal record checksum mismatch")

	// ErrInvalidWalOp is returned when a WAL record's op byte is not a
	// recognised SET or DELETE.
	ErrInvalidWalOp = errors.New("zdb: invalid wal op byte")

	// ErrUnexpectedEOF is returned when a WAL record is truncated after
	// its op byte has already been consumed.
	ErrUnexpectedEOF = errors.New("zdb: unexpected end of wal record")
)
