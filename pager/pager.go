// Package pager provides a pinned page cache over the engine's data
// file: pages are fetched on demand, pinned while callers hold them,
// and tracked on a dirty list that drains on flush. It owns the WAL
// handle so the Database facade can reach both through one object.
package pager

import (
	"io"
	"os"

	"github.com/kraytos17/zdb/page"
)

// CacheEntry is a single cached page plus its pin count and dirty-list
// linkage. The pager lends *CacheEntry to callers guarded by ref_cnt;
// Unpin must be called once per Get.
type CacheEntry struct {
	Page   *page.Page
	id     uint64
	refCnt int
	dirty  bool
	next   *CacheEntry // dirty-list linkage, nil outside the list
}

// ID returns the page id this entry caches.
func (e *CacheEntry) ID() uint64 { return e.id }

// Pager is an unbounded pinned page cache over a single data file. It
// never evicts; entries live until Close. The zero value is not ready
// for use; construct with Open.
type Pager struct {
	file      *os.File
	walHandle walCloser
	cache     map[uint64]*CacheEntry
	dirtyHead *CacheEntry
}

// walCloser is the subset of wal.WAL the pager needs, kept as an
// interface so this package does not import wal at all.
type walCloser interface {
	Close() error
}

// Open opens or creates path as the data file and hands back a pager
// with an empty cache. Callers construct and attach the WAL separately
// via SetWAL, since the WAL's own open/replay sequencing is driven by
// the Database facade.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &Pager{
		file:  f,
		cache: make(map[uint64]*CacheEntry),
	}, nil
}

// SetWAL attaches the WAL handle owned by this pager, so that Close
// closes it alongside the data file.
func (p *Pager) SetWAL(w walCloser) {
	p.walHandle = w
}

// Get fetches page_id, pinning it. Cached pages are returned directly
// with ref_cnt bumped; otherwise the page is read from disk (or
// initialised fresh if the file doesn't yet reach that offset) and
// inserted into the cache with ref_cnt=1.
func (p *Pager) Get(pageID uint64) (*CacheEntry, error) {
	if entry, ok := p.cache[pageID]; ok {
		entry.refCnt++
		return entry, nil
	}

	pg, err := p.readOrInit(pageID)
	if err != nil {
		return nil, err
	}

	entry := &CacheEntry{Page: pg, id: pageID, refCnt: 1}
	p.cache[pageID] = entry
	return entry, nil
}

func (p *Pager) readOrInit(pageID uint64) (*page.Page, error) {
	buf := make([]byte, page.Size)
	n, err := p.file.ReadAt(buf, int64(pageID)*page.Size)
	switch {
	case n == 0 && (err == io.EOF || err == nil):
		pg := page.New()
		pg.Init()
		return pg, nil
	case err != nil && err != io.EOF:
		return nil, err
	default:
		// Short read: the tail bytes past n are already zero from
		// make(), so the buffer is a well-formed page whose on-disk
		// header is preserved as-is.
		return page.FromBytes(buf), nil
	}
}

// Unpin releases one pin on entry. ref_cnt must stay non-negative;
// going negative is a programmer error and panics.
func (p *Pager) Unpin(entry *CacheEntry) {
	if entry.refCnt <= 0 {
		panic("pager: unpin called with ref_cnt already zero")
	}
	entry.refCnt--
}

// MakeDirty marks entry dirty and links it at the head of the dirty
// list, unless it's already there.
func (p *Pager) MakeDirty(entry *CacheEntry) {
	if entry.dirty {
		return
	}
	entry.dirty = true
	entry.next = p.dirtyHead
	p.dirtyHead = entry
}

// Flush writes every dirty page back to the data file in dirty-list
// order, clears dirtiness, then fsyncs the data file. List order
// doesn't matter: each page occupies a distinct file region.
func (p *Pager) Flush() error {
	for e := p.dirtyHead; e != nil; {
		if _, err := p.file.WriteAt(e.Page.Bytes(), int64(e.id)*page.Size); err != nil {
			return err
		}
		e.dirty = false
		next := e.next
		e.next = nil
		e = next
	}
	p.dirtyHead = nil
	return p.file.Sync()
}

// Close best-effort flushes (errors swallowed, matching the
// fail-soft shutdown contract: a crash-consistent WAL already covers
// recovery), then closes the WAL and data file.
func (p *Pager) Close() error {
	_ = p.Flush()
	if p.walHandle != nil {
		if err := p.walHandle.Close(); err != nil {
			p.file.Close()
			return err
		}
	}
	return p.file.Close()
}
