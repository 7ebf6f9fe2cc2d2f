// Package wal implements the engine's write-ahead log: a 12-byte framed
// header followed by an append-only sequence of checksummed SET/DELETE
// records, replayed on open to reconstruct the in-memory index.
package wal

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"

	"github.com/kraytos17/zdb/zdberr"
)

const (
	magic   = "ZDB1"
	version = uint32(1)

	// HeaderSize is the fixed size of the WAL file header.
	HeaderSize = 12

	opSet    = 1
	opDelete = 2
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Handler receives replayed WAL records in file order.
type Handler interface {
	OnSet(key uint64, value []byte) error
	OnDelete(key uint64) error
}

// WAL is an append-only, checksummed log over a single file handle.
type WAL struct {
	file        *os.File
	initialized bool
}

// Open opens or creates path as a WAL file and runs ensureHeader right
// away: an empty file gets a fresh header, an existing one is validated,
// so a bad header fails Open itself.
func Open(path string) (*WAL, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	w := &WAL{file: f}
	if err := w.ensureHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// ensureHeader writes a fresh header on an empty file, or validates an
// existing one. A file whose length is in (0, HeaderSize) is corrupt.
func (w *WAL) ensureHeader() error {
	if w.initialized {
		return nil
	}

	info, err := w.file.Stat()
	if err != nil {
		return err
	}

	switch {
	case info.Size() == 0:
		if err := w.writeHeader(); err != nil {
			return err
		}
	case info.Size() >= HeaderSize:
		if err := w.validateHeader(); err != nil {
			return err
		}
	default:
		return zdberr.ErrBadHeader
	}

	w.initialized = true
	return nil
}

func (w *WAL) writeHeader() error {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], version)
	crc := crc32.Checksum(buf[0:8], castagnoli)
	binary.LittleEndian.PutUint32(buf[8:12], crc)

	if _, err := w.file.WriteAt(buf, 0); err != nil {
		return err
	}
	return nil
}

func (w *WAL) validateHeader() error {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(io.NewSectionReader(w.file, 0, HeaderSize), buf); err != nil {
		return err
	}

	if string(buf[0:4]) != magic {
		return zdberr.ErrBadHeader
	}
	if binary.LittleEndian.Uint32(buf[4:8]) != version {
		return zdberr.ErrBadHeader
	}
	wantCRC := crc32.Checksum(buf[0:8], castagnoli)
	if binary.LittleEndian.Uint32(buf[8:12]) != wantCRC {
		return zdberr.ErrBadHeader
	}
	return nil
}

// AppendSet appends a SET record and returns its starting file offset.
func (w *WAL) AppendSet(key uint64, value []byte) (int64, error) {
	if err := w.ensureHeader(); err != nil {
		return 0, err
	}

	meta := make([]byte, 1+8+4)
	meta[0] = opSet
	binary.LittleEndian.PutUint64(meta[1:9], key)
	binary.LittleEndian.PutUint32(meta[9:13], uint32(len(value)))

	crc := crc32.Checksum(meta, castagnoli)
	crc = crc32.Update(crc, castagnoli, value)

	rec := make([]byte, 0, len(meta)+4+len(value))
	rec = append(rec, meta...)
	rec = binary.LittleEndian.AppendUint32(rec, crc)
	rec = append(rec, value...)

	return w.appendRecord(rec)
}

// AppendDelete appends a DELETE record and returns its starting file offset.
func (w *WAL) AppendDelete(key uint64) (int64, error) {
	if err := w.ensureHeader(); err != nil {
		return 0, err
	}

	meta := make([]byte, 1+8)
	meta[0] = opDelete
	binary.LittleEndian.PutUint64(meta[1:9], key)

	crc := crc32.Checksum(meta, castagnoli)

	rec := make([]byte, 0, len(meta)+4)
	rec = append(rec, meta...)
	rec = binary.LittleEndian.AppendUint32(rec, crc)

	return w.appendRecord(rec)
}

func (w *WAL) appendRecord(rec []byte) (int64, error) {
	offset, err := w.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := w.file.Write(rec); err != nil {
		return 0, err
	}
	return offset, nil
}

// Replay reads every record from byte HeaderSize to EOF and dispatches
// it to handler. Replay is fail-fast: the first corruption aborts and
// no subsequent records are delivered. A clean EOF between records ends
// replay without error; a short read inside a record (the op byte was
// already consumed) is ErrUnexpectedEOF, and the handler is never
// invoked for a partially-read record.
func (w *WAL) Replay(handler Handler) error {
	if err := w.ensureHeader(); err != nil {
		return err
	}

	r := io.NewSectionReader(w.file, HeaderSize, 1<<62)
	opBuf := make([]byte, 1)

	for {
		n, err := io.ReadFull(r, opBuf)
		if n == 0 && err == io.EOF {
			return nil
		}
		if err != nil {
			return zdberr.ErrUnexpectedEOF
		}

		switch opBuf[0] {
		case opSet:
			if err := w.replaySet(r, handler); err != nil {
				return err
			}
		case opDelete:
			if err := w.replayDelete(r, handler); err != nil {
				return err
			}
		default:
			return zdberr.ErrInvalidWalOp
		}
	}
}

func (w *WAL) replaySet(r io.Reader, handler Handler) error {
	rest := make([]byte, 8+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return zdberr.ErrUnexpectedEOF
	}
	key := binary.LittleEndian.Uint64(rest[0:8])
	length := binary.LittleEndian.Uint32(rest[8:12])

	crcBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, crcBuf); err != nil {
		return zdberr.ErrUnexpectedEOF
	}
	wantCRC := binary.LittleEndian.Uint32(crcBuf)

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return zdberr.ErrUnexpectedEOF
	}

	meta := make([]byte, 0, 1+8+4)
	meta = append(meta, opSet)
	meta = append(meta, rest...)
	crc := crc32.Checksum(meta, castagnoli)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != wantCRC {
		return zdberr.ErrBadChecksum
	}

	return handler.OnSet(key, payload)
}

func (w *WAL) replayDelete(r io.Reader, handler Handler) error {
	rest := make([]byte, 8)
	if _, err := io.ReadFull(r, rest); err != nil {
		return zdberr.ErrUnexpectedEOF
	}
	key := binary.LittleEndian.Uint64(rest)

	crcBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, crcBuf); err != nil {
		return zdberr.ErrUnexpectedEOF
	}
	wantCRC := binary.LittleEndian.Uint32(crcBuf)

	meta := make([]byte, 0, 1+8)
	meta = append(meta, opDelete)
	meta = append(meta, rest...)
	crc := crc32.Checksum(meta, castagnoli)
	if crc != wantCRC {
		return zdberr.ErrBadChecksum
	}

	return handler.OnDelete(key)
}

// Sync fsyncs the WAL file. Not required by the durability protocol
// (the pager's flush is the sync boundary for the data file) but
// exposed for callers who want explicit WAL durability.
func (w *WAL) Sync() error {
	return w.file.Sync()
}

// Close closes the underlying file handle.
func (w *WAL) Close() error {
	return w.file.Close()
}
