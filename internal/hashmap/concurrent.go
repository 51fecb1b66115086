package hashmap

import "sync/atomic"

// ConcurrentMap is a fixed-size handle->handle map with per-slot
// singly-linked chains. Readers use acquire loads and never block; writers
// insert head-first with a CAS loop and never resize (§4.4, §5: used as a
// read-mostly cache such as debug-frame/PC lookup shared across goroutines).
type ConcurrentMap struct {
	buckets []atomic.Pointer[cmNode]
	mask    uint64
}

type cmNode struct {
	key  uint64
	val  uint64
	next *cmNode
}

// NewConcurrentMap creates a map with a fixed bucket count (rounded up to a
// power of two, minimum 16). The bucket array never grows.
func NewConcurrentMap(bucketHint int) *ConcurrentMap {
	n := nextPow2(bucketHint, 16)
	return &ConcurrentMap{
		buckets: make([]atomic.Pointer[cmNode], n),
		mask:    uint64(n - 1),
	}
}

func (m *ConcurrentMap) bucketFor(key uint64) *atomic.Pointer[cmNode] {
	i := mixBits64(key) & m.mask
	return &m.buckets[i]
}

// Get walks the chain for key without taking any lock.
func (m *ConcurrentMap) Get(key uint64) (uint64, bool) {
	for n := m.bucketFor(key).Load(); n != nil; n = n.next {
		if n.key == key {
			return n.val, true
		}
	}
	return 0, false
}

// Put inserts a new head node for key via CAS retry. If key already exists
// in the chain, a new head shadowing it is inserted (lookups see the most
// recently inserted value first); this keeps writers lock-free without
// requiring an update-in-place CAS on immutable nodes.
func (m *ConcurrentMap) Put(key, val uint64) {
	bucket := m.bucketFor(key)
	for {
		head := bucket.Load()
		node := &cmNode{key: key, val: val, next: head}
		if bucket.CompareAndSwap(head, node) {
			return
		}
	}
}
