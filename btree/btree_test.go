package btree

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSearchEmpty(t *testing.T) {
	bt := New()
	if _, ok := bt.Search(1); ok {
		t.Fatalf("expected miss on empty tree")
	}
}

func TestInsertAndSearch(t *testing.T) {
	bt := New()
	for i := 1; i <= 30; i++ {
		bt.Insert(uint64(i), uint64(i*10))
	}
	if bt.Len() != 30 {
		t.Fatalf("expected 30 entries, got %d", bt.Len())
	}
	for i := 1; i <= 30; i++ {
		v, ok := bt.Search(uint64(i))
		if !ok || v != uint64(i*10) {
			t.Fatalf("search(%d) = (%d, %v), want (%d, true)", i, v, ok, i*10)
		}
	}
	if bt.Height() < 3 {
		t.Fatalf("expected height >= 3 after 30 inserts, got %d", bt.Height())
	}

	minK, minV, ok := bt.Min()
	if !ok || minK != 1 || minV != 10 {
		t.Fatalf("Min() = (%d, %d, %v), want (1, 10, true)", minK, minV, ok)
	}
	maxK, maxV, ok := bt.Max()
	if !ok || maxK != 30 || maxV != 300 {
		t.Fatalf("Max() = (%d, %d, %v), want (30, 300, true)", maxK, maxV, ok)
	}
}

func TestInsertUpsertOverwritesValue(t *testing.T) {
	bt := New()
	bt.Insert(5, 50)
	bt.Insert(5, 500)
	if bt.Len() != 1 {
		t.Fatalf("expected upsert to not grow size, got %d", bt.Len())
	}
	v, ok := bt.Search(5)
	if !ok || v != 500 {
		t.Fatalf("search(5) = (%d, %v), want (500, true)", v, ok)
	}
}

func TestForEachYieldsAscendingOrder(t *testing.T) {
	bt := New()
	keys := []uint64{50, 10, 40, 20, 30, 5, 45, 35, 25, 15}
	for _, k := range keys {
		bt.Insert(k, k*2)
	}

	var got []uint64
	bt.ForEach(func(k, v uint64) {
		if v != k*2 {
			t.Fatalf("value mismatch for key %d: got %d", k, v)
		}
		got = append(got, k)
	})

	want := append([]uint64(nil), keys...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ForEach order mismatch at %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRangeBounds(t *testing.T) {
	bt := New()
	for i := 1; i <= 20; i++ {
		bt.Insert(uint64(i), uint64(i))
	}

	var got []uint64
	bt.Range(5, 10, func(k, v uint64) { got = append(got, k) })

	want := []uint64{5, 6, 7, 8, 9, 10}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCursorMatchesForEach(t *testing.T) {
	bt := New()
	for i := 1; i <= 25; i++ {
		bt.Insert(uint64(i*7%101), uint64(i))
	}

	var want []uint64
	bt.ForEach(func(k, v uint64) { want = append(want, k) })

	var got []uint64
	c := bt.Cursor()
	for c.Next() {
		got = append(got, c.Key())
	}
	if len(got) != len(want) {
		t.Fatalf("cursor yielded %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cursor order mismatch at %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if c.IsValid() {
		t.Fatalf("expected cursor to be invalid after exhaustion")
	}
}

func TestDeleteLeafKey(t *testing.T) {
	bt := New()
	for i := 1; i <= 5; i++ {
		bt.Insert(uint64(i), uint64(i))
	}
	bt.Delete(3)
	if bt.Len() != 4 {
		t.Fatalf("expected 4 entries after delete, got %d", bt.Len())
	}
	if _, ok := bt.Search(3); ok {
		t.Fatalf("expected key 3 to be gone")
	}
	for _, k := range []uint64{1, 2, 4, 5} {
		if _, ok := bt.Search(k); !ok {
			t.Fatalf("expected key %d to survive", k)
		}
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	bt := New()
	bt.Insert(1, 1)
	bt.Delete(99)
	if bt.Len() != 1 {
		t.Fatalf("expected delete of absent key to be a no-op, got len=%d", bt.Len())
	}
}

func TestDeleteDrivesMergesAndRootCollapse(t *testing.T) {
	bt := New()
	for i := 1; i <= 50; i++ {
		bt.Insert(uint64(i), uint64(i*10))
	}
	for i := 1; i <= 49; i++ {
		bt.Delete(uint64(i))
	}
	if bt.Len() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", bt.Len())
	}
	v, ok := bt.Search(50)
	if !ok || v != 500 {
		t.Fatalf("search(50) = (%d, %v), want (500, true)", v, ok)
	}
	if bt.Height() != 0 {
		t.Fatalf("expected root to have collapsed to a single leaf, height=%d", bt.Height())
	}
}

func TestDeleteAllKeysLeavesEmptyTree(t *testing.T) {
	bt := New()
	for i := 1; i <= 40; i++ {
		bt.Insert(uint64(i), uint64(i))
	}
	for i := 1; i <= 40; i++ {
		bt.Delete(uint64(i))
	}
	if bt.Len() != 0 {
		t.Fatalf("expected empty tree, got len=%d", bt.Len())
	}
	if _, ok := bt.Search(1); ok {
		t.Fatalf("expected empty tree to miss every search")
	}
	if _, _, ok := bt.Min(); ok {
		t.Fatalf("expected Min() to report empty")
	}
}

func TestAgainstReferenceMapRandomized(t *testing.T) {
	bt := New()
	reference := make(map[uint64]uint64)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		key := uint64(rng.Intn(200))
		switch rng.Intn(3) {
		case 0, 1:
			value := uint64(rng.Int63())
			bt.Insert(key, value)
			reference[key] = value
		case 2:
			bt.Delete(key)
			delete(reference, key)
		}

		if bt.Len() != len(reference) {
			t.Fatalf("step %d: len mismatch got=%d want=%d", i, bt.Len(), len(reference))
		}
	}

	for key, want := range reference {
		got, ok := bt.Search(key)
		if !ok || got != want {
			t.Fatalf("search(%d) = (%d, %v), want (%d, true)", key, got, ok, want)
		}
	}

	var keys []uint64
	for k := range reference {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var got []uint64
	bt.ForEach(func(k, v uint64) { got = append(got, k) })
	if len(got) != len(keys) {
		t.Fatalf("ForEach length mismatch: got %d, want %d", len(got), len(keys))
	}
	for i := range keys {
		if got[i] != keys[i] {
			t.Fatalf("ForEach order mismatch at %d: got %d, want %d", i, got[i], keys[i])
		}
	}
}
