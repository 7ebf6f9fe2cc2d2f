package zdb

// replayHandler drives WAL replay into a DB's page 0 and index. SET
// records reuse the same write path as Set; DELETE records only remove
// the key from the index, per the replay protocol — the page slot a
// deleted key once pointed at is simply left unindexed.
type replayHandler struct {
	db *DB
}

func (h replayHandler) OnSet(key uint64, value []byte) error {
	ref, err := h.db.writeValue(value)
	if err != nil {
		return err
	}
	h.db.index.Insert(key, uint64(ref))
	return nil
}

func (h replayHandler) OnDelete(key uint64) error {
	h.db.index.Delete(key)
	return nil
}
