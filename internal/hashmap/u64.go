package hashmap

// splitMix64 is the required mixing function for the u64->pointer map.
func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// U64Map is a u64->handle map with SplitMix64 mixing, a bitmap occupancy
// flag and a single-entry lookup cache for the most recently queried key
// (hot in layout/type lookup loops).
type U64Map struct {
	occupied []bool
	keys     []uint64
	vals     []uint64
	count    int

	cacheValid bool
	cacheKey   uint64
	cacheVal   uint64
}

// NewU64Map creates an empty map with the given capacity hint.
func NewU64Map(capHint int) *U64Map {
	n := nextPow2(capHint, 8)
	return &U64Map{
		occupied: make([]bool, n),
		keys:     make([]uint64, n),
		vals:     make([]uint64, n),
	}
}

func (m *U64Map) indexOf(key uint64) int {
	mask := uint64(len(m.occupied) - 1)
	i := splitMix64(key) & mask
	for {
		if !m.occupied[i] || m.keys[i] == key {
			return int(i)
		}
		i = (i + 1) & mask
	}
}

// Get returns the value for key, consulting and refreshing the one-entry
// lookup cache first.
func (m *U64Map) Get(key uint64) (uint64, bool) {
	if m.cacheValid && m.cacheKey == key {
		return m.cacheVal, true
	}
	if len(m.occupied) == 0 {
		return 0, false
	}
	i := m.indexOf(key)
	if !m.occupied[i] {
		return 0, false
	}
	m.cacheValid, m.cacheKey, m.cacheVal = true, key, m.vals[i]
	return m.vals[i], true
}

// Put inserts or updates the value for key.
func (m *U64Map) Put(key, val uint64) {
	if len(m.occupied) == 0 {
		m.occupied = make([]bool, 8)
		m.keys = make([]uint64, 8)
		m.vals = make([]uint64, 8)
	}
	if (m.count+1)*2 > len(m.occupied) {
		m.grow()
	}
	i := m.indexOf(key)
	if !m.occupied[i] {
		m.count++
	}
	m.occupied[i], m.keys[i], m.vals[i] = true, key, val
	m.cacheValid, m.cacheKey, m.cacheVal = true, key, val
}

func (m *U64Map) grow() {
	oldOcc, oldK, oldV := m.occupied, m.keys, m.vals
	n := len(oldOcc) * 2
	m.occupied = make([]bool, n)
	m.keys = make([]uint64, n)
	m.vals = make([]uint64, n)
	m.count = 0
	m.cacheValid = false
	for i, used := range oldOcc {
		if used {
			m.Put(oldK[i], oldV[i])
		}
	}
}

// Len reports the number of stored entries.
func (m *U64Map) Len() int { return m.count }
