package page

import (
	"bytes"
	"testing"
)

func TestNewPageHeader(t *testing.T) {
	p := New()
	if p.NumRecords() != 0 {
		t.Fatalf("expected 0 records, got %d", p.NumRecords())
	}
	if got, want := p.FreeSpace(), Size-HeaderSize; got != want {
		t.Fatalf("expected %d bytes free, got %d", want, got)
	}
}

func TestInsertGet(t *testing.T) {
	p := New()

	slot, err := p.Insert([]byte("hello"))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if slot != 0 {
		t.Fatalf("expected slot 0, got %d", slot)
	}

	v, ok := p.Get(slot)
	if !ok {
		t.Fatalf("expected slot %d to be present", slot)
	}
	if !bytes.Equal(v, []byte("hello")) {
		t.Fatalf("expected %q, got %q", "hello", v)
	}
}

func TestInsertReturnsSequentialSlots(t *testing.T) {
	p := New()
	for i, want := range []string{"a", "bb", "ccc"} {
		slot, err := p.Insert([]byte(want))
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		if slot != i {
			t.Fatalf("expected slot %d, got %d", i, slot)
		}
	}
}

func TestEmptyPayload(t *testing.T) {
	p := New()
	slot, err := p.Insert(nil)
	if err != nil {
		t.Fatalf("insert empty payload failed: %v", err)
	}
	v, ok := p.Get(slot)
	if !ok || len(v) != 0 {
		t.Fatalf("expected empty payload, got %q (ok=%v)", v, ok)
	}
}

func TestDeleteTombstones(t *testing.T) {
	p := New()
	slot, _ := p.Insert([]byte("gone"))

	if err := p.Delete(slot); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := p.Get(slot); ok {
		t.Fatalf("expected slot %d to read as absent after delete", slot)
	}
}

func TestDeleteOutOfBounds(t *testing.T) {
	p := New()
	if err := p.Delete(3); err == nil {
		t.Fatalf("expected out-of-bounds delete to fail")
	}
}

func TestGetOutOfBounds(t *testing.T) {
	p := New()
	p.Insert([]byte("x"))
	if _, ok := p.Get(5); ok {
		t.Fatalf("expected slot 5 to be absent on a page with 1 record")
	}
}

func TestCanInsertFullPage(t *testing.T) {
	p := New()
	big := bytes.Repeat([]byte{0x42}, Size-HeaderSize-4)
	if !p.CanInsert(len(big)) {
		t.Fatalf("expected page to accept a payload that exactly fits")
	}
	if _, err := p.Insert(big); err != nil {
		t.Fatalf("insert of exactly-fitting payload failed: %v", err)
	}
	if p.CanInsert(1) {
		t.Fatalf("expected page to reject any further insert")
	}
	if _, err := p.Insert([]byte{1}); err == nil {
		t.Fatalf("expected out-of-space error")
	}
}

func TestDefragmentPreservesLiveOrder(t *testing.T) {
	p := New()
	var slots []int
	for _, v := range []string{"one", "two", "three", "four"} {
		s, _ := p.Insert([]byte(v))
		slots = append(slots, s)
	}

	// Delete the 2nd and 4th records, leaving "one" and "three" live.
	if err := p.Delete(slots[1]); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := p.Delete(slots[3]); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	p.Defragment()

	if p.NumRecords() != 2 {
		t.Fatalf("expected 2 live records after defragment, got %d", p.NumRecords())
	}
	v0, ok := p.Get(0)
	if !ok || string(v0) != "one" {
		t.Fatalf("expected slot 0 to be %q, got %q (ok=%v)", "one", v0, ok)
	}
	v1, ok := p.Get(1)
	if !ok || string(v1) != "three" {
		t.Fatalf("expected slot 1 to be %q, got %q (ok=%v)", "three", v1, ok)
	}
}

func TestFreeSpaceInvariant(t *testing.T) {
	p := New()
	for i := 0; i < 50; i++ {
		_, err := p.Insert([]byte{byte(i)})
		if err != nil {
			break
		}
		if p.FreeSpace() < 0 {
			t.Fatalf("free space went negative after %d inserts", i)
		}
	}
}
