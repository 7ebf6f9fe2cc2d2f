// Package page implements the fixed-size slotted page used by the pager
// to store record payloads for one logical B-tree key each.
//
// Layout (4096 bytes, little-endian):
//
//	[0:2]   num_records  total slot table length (live + tombstoned)
//	[2:4]   free_start   first free byte after the last record payload
//	[4:6]   free_end     first byte of the slot table (grows downward)
//	...     record payloads, growing upward from HeaderSize
//	...     slot table, growing downward from PageSize; slot i lives at
//	        [PageSize-2(i+1), PageSize-2i) and holds a u16 offset, or the
//	        tombstone sentinel 0xFFFF.
package page

import (
	"encoding/binary"

	"github.com/kraytos17/zdb/zdberr"
)

const (
	// Size is the fixed on-disk and in-memory page size.
	Size = 4096

	// HeaderSize is the number of bytes occupied by the page header.
	HeaderSize = 6

	offsetNumRecords = 0
	offsetFreeStart  = 2
	offsetFreeEnd    = 4

	slotEntrySize = 2

	// Tombstone is the sentinel slot value marking a deleted record.
	Tombstone = 0xFFFF

	// recordHeaderSize is the size of a record's length prefix.
	recordHeaderSize = 2
)

// Page is a fixed 4096-byte slotted page, held entirely in memory and
// backed by the pager's buffer.
type Page struct {
	buf [Size]byte
}

// New returns a freshly initialised page: num_records=0, free_start=6,
// free_end=4096.
func New() *Page {
	p := &Page{}
	p.Init()
	return p
}

// FromBytes wraps an existing PageSize-byte buffer as a Page without
// touching its header — used by the pager when loading a page whose
// header was already written to disk.
func FromBytes(buf []byte) *Page {
	p := &Page{}
	copy(p.buf[:], buf)
	return p
}

// Init (re)writes a fresh header over the page's buffer.
func (p *Page) Init() {
	p.setNumRecords(0)
	p.setFreeStart(HeaderSize)
	p.setFreeEnd(Size)
}

// Bytes returns the page's raw buffer for the pager to read/write.
func (p *Page) Bytes() []byte { return p.buf[:] }

func (p *Page) numRecords() uint16 { return binary.LittleEndian.Uint16(p.buf[offsetNumRecords:]) }
func (p *Page) setNumRecords(n uint16) {
	binary.LittleEndian.PutUint16(p.buf[offsetNumRecords:], n)
}

func (p *Page) freeStart() uint16 { return binary.LittleEndian.Uint16(p.buf[offsetFreeStart:]) }
func (p *Page) setFreeStart(v uint16) {
	binary.LittleEndian.PutUint16(p.buf[offsetFreeStart:], v)
}

func (p *Page) freeEnd() uint16 { return binary.LittleEndian.Uint16(p.buf[offsetFreeEnd:]) }
func (p *Page) setFreeEnd(v uint16) {
	binary.LittleEndian.PutUint16(p.buf[offsetFreeEnd:], v)
}

// NumRecords returns the total slot table length, live and tombstoned.
func (p *Page) NumRecords() int { return int(p.numRecords()) }

// FreeSpace returns free_end - free_start, or 0 if the page is corrupt
// in a way that would make the subtraction wrap.
func (p *Page) FreeSpace() int {
	fs, fe := int(p.freeStart()), int(p.freeEnd())
	if fe < fs {
		return 0
	}
	return fe - fs
}

func (p *Page) slotOffset(slot int) int {
	return Size - slotEntrySize*(slot+1)
}

func (p *Page) slotValue(slot int) uint16 {
	off := p.slotOffset(slot)
	return binary.LittleEndian.Uint16(p.buf[off : off+2])
}

func (p *Page) setSlotValue(slot int, v uint16) {
	off := p.slotOffset(slot)
	binary.LittleEndian.PutUint16(p.buf[off:off+2], v)
}

// CanInsert reports whether a payload of payloadLen bytes fits: the
// record header+payload plus one new slot entry.
func (p *Page) CanInsert(payloadLen int) bool {
	return p.FreeSpace() >= recordHeaderSize+payloadLen+slotEntrySize
}

// Insert appends payload at free_start, allocates a new slot entry at
// free_end, and returns the new slot's index (the previous num_records).
func (p *Page) Insert(payload []byte) (int, error) {
	if !p.CanInsert(len(payload)) {
		return 0, zdberr.ErrOutOfSpace
	}

	recOff := p.freeStart()
	binary.LittleEndian.PutUint16(p.buf[recOff:], uint16(len(payload)))
	copy(p.buf[int(recOff)+recordHeaderSize:], payload)

	slot := p.NumRecords()
	p.setFreeEnd(p.freeEnd() - slotEntrySize)
	p.setSlotValue(slot, recOff)
	p.setFreeStart(recOff + uint16(recordHeaderSize+len(payload)))
	p.setNumRecords(uint16(slot + 1))

	return slot, nil
}

// Get returns the payload stored at slot, or (nil, false) if the slot is
// out of range or tombstoned. The returned slice aliases the page buffer.
func (p *Page) Get(slot int) ([]byte, bool) {
	if slot < 0 || slot >= p.NumRecords() {
		return nil, false
	}
	recOff := p.slotValue(slot)
	if recOff == Tombstone {
		return nil, false
	}
	length := binary.LittleEndian.Uint16(p.buf[recOff:])
	start := int(recOff) + recordHeaderSize
	return p.buf[start : start+int(length)], true
}

// Delete overwrites slot's entry with the tombstone sentinel. The
// payload bytes remain in place until Defragment.
func (p *Page) Delete(slot int) error {
	if slot < 0 || slot >= p.NumRecords() {
		return zdberr.ErrOutOfBounds
	}
	p.setSlotValue(slot, Tombstone)
	return nil
}

// Defragment compacts live records toward the page head, dropping every
// tombstone and renumbering the surviving slots from 0. Callers must not
// hold a RecordRef across a Defragment call (see spec.md §9, open
// question 1): a ref to any slot after a dropped tombstone would then
// name a different record. The zdb facade does not call it; its write
// path compacts through DB.Compact, which rebuilds the index together
// with the page.
func (p *Page) Defragment() {
	n := p.NumRecords()
	type live struct {
		payload []byte
	}
	kept := make([]live, 0, n)
	for s := 0; s < n; s++ {
		if v, ok := p.Get(s); ok {
			cp := make([]byte, len(v))
			copy(cp, v)
			kept = append(kept, live{payload: cp})
		}
	}

	p.Init()
	for _, l := range kept {
		// Space was already proven sufficient by the original layout;
		// Insert cannot fail here.
		if _, err := p.Insert(l.payload); err != nil {
			panic("page: defragment reinsert failed: " + err.Error())
		}
	}
}
