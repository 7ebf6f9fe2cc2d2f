package zdb

import "testing"

func TestRecordRefRoundTrip(t *testing.T) {
	cases := []struct {
		pageID uint64
		slot   int
	}{
		{0, 0},
		{0, 1},
		{1, 65535},
		{4294967295, 0},
		{123456, 4321},
	}

	for _, c := range cases {
		ref := encodeRef(c.pageID, c.slot)
		if got := ref.pageID(); got != c.pageID {
			t.Fatalf("pageID mismatch for %+v: got %d", c, got)
		}
		if got := ref.slot(); got != c.slot {
			t.Fatalf("slot mismatch for %+v: got %d", c, got)
		}
	}
}
