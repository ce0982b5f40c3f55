package store

// op is one staged mutation.
type op struct {
	remove bool
	key    []byte
	value  []byte
}

// Batch is an ordered staging buffer of insert/remove operations plus a
// running count, consumed by exactly one Tree.ApplyBatch call against one
// tree. Grounded on original_source/db/src/lib.rs's DbBatch: InsertRaw and
// RemoveRaw append operations, and the underlying storage is taken (not
// copied) by ApplyBatch, leaving the Batch empty and reusable.
type Batch struct {
	ops []op
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// InsertRaw appends an insert operation.
func (b *Batch) InsertRaw(key, value []byte) {
	b.ops = append(b.ops, op{key: key, value: value})
}

// RemoveRaw appends a remove operation.
func (b *Batch) RemoveRaw(key []byte) {
	b.ops = append(b.ops, op{remove: true, key: key})
}

// Count returns the number of operations appended since construction or the
// last ApplyBatch.
func (b *Batch) Count() uint64 {
	return uint64(len(b.ops))
}

// take moves the accumulated operations out of b, resetting it to empty.
func (b *Batch) take() []op {
	ops := b.ops
	b.ops = nil
	return ops
}
