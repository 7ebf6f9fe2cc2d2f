// Package zdb composes the page, WAL, B-tree, and pager subsystems
// into a single embedded key/value database. Every mutation appends to
// the WAL before the data file is touched; on open, the WAL is
// replayed to reconstruct both page 0 and the in-memory index, so page
// 0 never needs to be durable ahead of a crash.
package zdb

import (
	"github.com/kraytos17/zdb/btree"
	"github.com/kraytos17/zdb/page"
	"github.com/kraytos17/zdb/pager"
	"github.com/kraytos17/zdb/wal"
	"github.com/kraytos17/zdb/zdberr"
)

// maxValueSize is the largest payload Set will accept: whatever fits in
// one page's record heap alongside its own slot entry, starting from a
// freshly initialised page (4 bytes of per-record overhead: a 2-byte
// length prefix plus a 2-byte slot table entry). A value that passed a
// larger limit here would append to the WAL, then fail CanInsert in
// writeValue, and on the next Open, Replay would hit that same
// oversized record and abort permanently. Bounding Set to single-page
// capacity keeps that failure at write time, before anything durable
// exists to replay.
const maxValueSize = page.Size - page.HeaderSize - 4

// dataPageID is the only page this facade ever uses; page_id exists in
// RecordRef for future expansion but nothing here allocates a second page.
const dataPageID = 0

// DB is the embedded key/value facade. The zero value is not ready for
// use; construct with Open.
type DB struct {
	pager *pager.Pager
	wal   *wal.WAL
	index *btree.BTree
}

// Open opens or creates path (plus path+".wal") under dir, resets page
// 0, and replays the WAL to rebuild both page 0's contents and the
// index from scratch. dir is accepted for interface parity with the
// teacher's Config.DataDir convention; path is taken as given (callers
// typically join it under dir themselves).
func Open(dir, path string) (*DB, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, err
	}

	w, err := wal.Open(path + ".wal")
	if err != nil {
		p.Close()
		return nil, err
	}
	p.SetWAL(w)

	db := &DB{pager: p, wal: w, index: btree.New()}

	if err := db.resetDataPage(); err != nil {
		p.Close()
		return nil, err
	}
	if err := w.Replay(replayHandler{db}); err != nil {
		p.Close()
		return nil, err
	}

	return db, nil
}

// resetDataPage discards whatever page 0 holds on disk. Replay is the
// sole source of truth for its contents, so starting from a blank page
// keeps slot assignment deterministic across opens.
func (db *DB) resetDataPage() error {
	entry, err := db.pager.Get(dataPageID)
	if err != nil {
		return err
	}
	entry.Page.Init()
	db.pager.MakeDirty(entry)
	db.pager.Unpin(entry)
	return nil
}

// Set stores value under key, rejecting payloads larger than
// maxValueSize. It appends a WAL record before writing the data file, so a
// crash between the two leaves the WAL as the authoritative record.
// An upsert overwrites the index's previous ref without reclaiming the
// old page slot; that slot is reclaimed only when page 0 is next
// compacted.
func (db *DB) Set(key uint64, value []byte) error {
	if len(value) > maxValueSize {
		return zdberr.ErrValueTooLarge
	}
	if _, err := db.wal.AppendSet(key, value); err != nil {
		return err
	}

	ref, err := db.writeValue(value)
	if err != nil {
		return err
	}
	db.index.Insert(key, uint64(ref))
	return nil
}

// writeValue pins page 0, compacts it once through Compact (which
// rebuilds the index alongside the page) if the payload doesn't fit
// as-is, inserts, marks the page dirty, and unpins.
func (db *DB) writeValue(value []byte) (RecordRef, error) {
	entry, err := db.pager.Get(dataPageID)
	if err != nil {
		return 0, err
	}
	defer db.pager.Unpin(entry)

	if !entry.Page.CanInsert(len(value)) {
		if err := db.Compact(); err != nil {
			return 0, err
		}
		if !entry.Page.CanInsert(len(value)) {
			return 0, zdberr.ErrOutOfSpace
		}
	}

	slot, err := entry.Page.Insert(value)
	if err != nil {
		return 0, err
	}
	db.pager.MakeDirty(entry)
	return encodeRef(dataPageID, slot), nil
}

// Get returns the value stored under key, or (nil, false) if absent or
// tombstoned.
func (db *DB) Get(key uint64) ([]byte, bool) {
	v, ok := db.index.Search(key)
	if !ok {
		return nil, false
	}

	ref := RecordRef(v)
	entry, err := db.pager.Get(ref.pageID())
	if err != nil {
		return nil, false
	}
	defer db.pager.Unpin(entry)

	payload, ok := entry.Page.Get(ref.slot())
	if !ok {
		return nil, false
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true
}

// Delete removes key. A delete of an absent key still appends to the
// WAL, so replay stays idempotent regardless of whether the key was
// ever present.
func (db *DB) Delete(key uint64) error {
	if _, err := db.wal.AppendDelete(key); err != nil {
		return err
	}

	v, ok := db.index.Search(key)
	if !ok {
		return nil
	}

	ref := RecordRef(v)
	entry, err := db.pager.Get(ref.pageID())
	if err != nil {
		return err
	}
	if err := entry.Page.Delete(ref.slot()); err != nil {
		db.pager.Unpin(entry)
		return err
	}
	db.pager.MakeDirty(entry)
	db.pager.Unpin(entry)

	db.index.Delete(key)
	return nil
}

// Sync flushes every dirty page and fsyncs the data file.
func (db *DB) Sync() error {
	return db.pager.Flush()
}

// Compact rebuilds page 0 and the index together: Page.Defragment
// alone renumbers slots from 0 whenever a tombstone precedes a live
// record, which would otherwise leave old index entries pointing at
// the wrong slot rather than merely a stale one. Compact reads every
// live (key, value) pair through the current index, reinitialises the
// page, and reinserts each value while recording its fresh slot in a
// replacement index, so the two stay consistent with each other.
func (db *DB) Compact() error {
	entry, err := db.pager.Get(dataPageID)
	if err != nil {
		return err
	}
	defer db.pager.Unpin(entry)

	type liveEntry struct {
		key     uint64
		payload []byte
	}
	var live []liveEntry
	db.index.ForEach(func(key, rawRef uint64) {
		ref := RecordRef(rawRef)
		if ref.pageID() != dataPageID {
			return
		}
		payload, ok := entry.Page.Get(ref.slot())
		if !ok {
			return
		}
		cp := make([]byte, len(payload))
		copy(cp, payload)
		live = append(live, liveEntry{key: key, payload: cp})
	})

	entry.Page.Init()
	rebuilt := btree.New()
	for _, e := range live {
		slot, err := entry.Page.Insert(e.payload)
		if err != nil {
			return err
		}
		rebuilt.Insert(e.key, uint64(encodeRef(dataPageID, slot)))
	}

	db.index = rebuilt
	db.pager.MakeDirty(entry)
	return nil
}

// Close flushes and releases the pager, which in turn closes the WAL
// and data file handles.
func (db *DB) Close() error {
	return db.pager.Close()
}

// ForEach visits every live (key, value) pair in ascending key order.
// It exists for callers like the SQL VM that need a full scan rather
// than a point lookup; the core facade itself never calls it.
func (db *DB) ForEach(visit func(key uint64, value []byte)) {
	entry, err := db.pager.Get(dataPageID)
	if err != nil {
		return
	}
	defer db.pager.Unpin(entry)

	db.index.ForEach(func(key, rawRef uint64) {
		ref := RecordRef(rawRef)
		payload, ok := entry.Page.Get(ref.slot())
		if !ok {
			return
		}
		visit(key, payload)
	})
}
