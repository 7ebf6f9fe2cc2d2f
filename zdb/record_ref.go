package zdb

// RecordRef locates a value's slot on a page: the low 16 bits carry the
// slot index, the next 32 bits the page id, and the top 16 bits are
// unused (always zero). It's the opaque payload stored as the B-tree's
// value for every key.
type RecordRef uint64

func encodeRef(pageID uint64, slot int) RecordRef {
	return RecordRef((pageID << 16) | uint64(uint16(slot)))
}

func (r RecordRef) pageID() uint64 { return uint64(r) >> 16 }
func (r RecordRef) slot() int      { return int(uint16(r)) }
