package cart

// versions orders cart operations so a settling operation can tell whether a newer one
// has taken over its line item. Not safe for concurrent use; guarded by Store.mu.
type versions struct {
	seq   uint64
	keys  map[string]uint64
	clear uint64
}

func newVersions() *versions {
	return &versions{keys: make(map[string]uint64)}
}

// beginKey starts an operation on one line item
func (v *versions) beginKey(key string) uint64 {
	v.seq++
	v.keys[key] = v.seq
	return v.seq
}

// beginClear starts a cart-wide operation; it supersedes every key
func (v *versions) beginClear() uint64 {
	v.seq++
	v.clear = v.seq
	return v.seq
}

// keySuperseded reports whether an operation on key started at version has been overtaken
func (v *versions) keySuperseded(key string, version uint64) bool {
	return v.keys[key] != version || v.clear > version
}

// cartSuperseded reports whether any operation started after version
func (v *versions) cartSuperseded(version uint64) bool {
	return v.seq != version
}

// current returns the version of the latest operation
func (v *versions) current() uint64 {
	return v.seq
}
