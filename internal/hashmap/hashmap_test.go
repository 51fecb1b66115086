package hashmap

import (
	"sync"
	"testing"
)

func TestPointerMapRehash(t *testing.T) {
	m := NewPointerMap(4)
	for i := uint64(0); i < 200; i++ {
		m.Put(i, i*2)
	}
	for i := uint64(0); i < 200; i++ {
		v, ok := m.Get(i)
		if !ok || v != i*2 {
			t.Fatalf("key %d: got (%d,%v)", i, v, ok)
		}
	}
}

func TestStringMapOwnsKeys(t *testing.T) {
	m := NewStringMap(4)
	buf := []byte("hello")
	m.Put(string(buf), 42)
	buf[0] = 'H'
	v, ok := m.Get("hello")
	if !ok || v != 42 {
		t.Fatalf("expected stored key to be unaffected by buffer mutation")
	}
}

func TestU64MapCache(t *testing.T) {
	m := NewU64Map(8)
	m.Put(7, 100)
	if v, ok := m.Get(7); !ok || v != 100 {
		t.Fatalf("got (%d,%v)", v, ok)
	}
	if v, ok := m.Get(7); !ok || v != 100 { // second hit should come from cache
		t.Fatalf("got (%d,%v)", v, ok)
	}
}

// TestConcurrentMapWriters exercises the property from §8: a concurrent map
// survives N writer threads x M insertions with final membership equal to
// the union of all inserted keys.
func TestConcurrentMapWriters(t *testing.T) {
	const writers = 8
	const perWriter = 500
	m := NewConcurrentMap(16)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				key := uint64(w*perWriter + i)
				m.Put(key, key+1)
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			key := uint64(w*perWriter + i)
			v, ok := m.Get(key)
			if !ok || v != key+1 {
				t.Fatalf("missing or wrong value for key %d: (%d,%v)", key, v, ok)
			}
		}
	}
}
