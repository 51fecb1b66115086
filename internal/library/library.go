// Package library implements the library manager (C5): a directory of
// compiled design units, each persisted as a msgpack-framed file keyed by
// (library, unit) and validated by a schema digest, with atomic
// temp-file-then-rename writes so a crash mid-save never corrupts an
// existing unit.
//
// Grounded on the teacher's internal/driver/dcache.go (DiskCache: sha256
// digest key, os.CreateTemp + os.Rename atomic replace, msgpack framing,
// schema version field) generalized from a single flat module cache to a
// two-level (library, unit) catalog per §4.4's "library -> unit -> object"
// hierarchy.
package library

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"nvcgo/internal/obj"
)

// SchemaDigest identifies the wire format of the object schemas currently
// compiled into this binary. It must match a persisted unit's digest or
// the unit is StaleUnitError (§4.4, §8 scenario 5).
type SchemaDigest = uint64

// Catalog is an on-disk directory of libraries. Each library is a
// subdirectory; each unit within it is one file.
type Catalog struct {
	mu     sync.RWMutex
	root   string
	digest SchemaDigest

	// loaded caches arenas already brought into the Store, keyed by
	// (library, unit) so repeated ResolveDep calls within one session
	// reuse the same ArenaID instead of re-deserializing.
	loaded map[key]obj.ArenaID
	// names maps every arena saved or loaded through this Catalog to its
	// (library, unit), used by NameOf to answer obj.ArenaResolver during
	// serialization of dependents.
	names map[obj.ArenaID]key
}

type key struct {
	Library string
	Unit    string
}

// OpenCatalog opens (creating if absent) a catalog rooted at dir.
func OpenCatalog(dir string, digest SchemaDigest) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "library: create catalog root")
	}
	return &Catalog{
		root:   dir,
		digest: digest,
		loaded: make(map[key]obj.ArenaID),
		names:  make(map[obj.ArenaID]key),
	}, nil
}

func (c *Catalog) unitPath(library, unit string) string {
	h := hex.EncodeToString([]byte(unit))
	return filepath.Join(c.root, library, h+".nvu")
}

// Save serializes root (and, transitively, everything it references within
// its own arena) into library/unit, using s as the ArenaResolver for
// cross-arena references. The write is atomic: a temp file is written and
// fsynced, then renamed over the destination (§4.4 "atomic unit replace").
func (c *Catalog) Save(s *obj.Store, library, unit string, root obj.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.unitPath(library, unit)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "library: create library dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return errors.Wrap(err, "library: create temp unit file")
	}
	tmpName := tmp.Name()
	removeTmp := true
	defer func() {
		if removeTmp {
			_ = os.Remove(tmpName)
		}
	}()

	if err := s.Serialize(root, tmp, c.digest, c); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "library: serialize unit")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "library: fsync temp unit file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "library: close temp unit file")
	}
	if err := os.Rename(tmpName, p); err != nil {
		return errors.Wrap(err, "library: rename temp unit file")
	}
	removeTmp = false

	// Only names is recorded: root.Arena belongs to the saving store and
	// root need not sit at index 1, so it must not feed Load's cache.
	c.names[root.Arena] = key{Library: library, Unit: unit}
	return nil
}

// Load deserializes library/unit into s, returning its root handle. A
// digest mismatch or missing dependency surfaces as *obj.StaleUnitError
// (§4.4, §8 scenario 5); no partial state is left in s in that case since
// obj.Deserialize validates before allocating.
func (c *Catalog) Load(s *obj.Store, library, unit string) (obj.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(s, library, unit)
}

func (c *Catalog) loadLocked(s *obj.Store, library, unit string) (obj.Handle, error) {
	k := key{Library: library, Unit: unit}
	if gen, ok := c.loaded[k]; ok {
		a := s.Arena(gen)
		if a != nil {
			// Re-derive the root handle: the unit's own root is always
			// stored at index 1 by construction of Deserialize's DFS order.
			return obj.Handle{Arena: gen, Index: 1}, nil
		}
	}

	p := c.unitPath(library, unit)
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return obj.Nil, fmt.Errorf("library: unit %s.%s not found", library, unit)
		}
		return obj.Nil, errors.Wrap(err, "library: open unit file")
	}
	defer f.Close()

	root, err := s.Deserialize(f, c.digest, c)
	if err != nil {
		return obj.Nil, err
	}
	c.loaded[k] = root.Arena
	c.names[root.Arena] = k
	return root, nil
}

// NameOf implements obj.ArenaResolver.
func (c *Catalog) NameOf(gen obj.ArenaID) (library, unit string, ok bool) {
	k, ok := c.names[gen]
	return k.Library, k.Unit, ok
}

// ResolveDep implements obj.ArenaResolver. It only resolves dependencies
// already brought into this process by Load; it never reads from disk, so
// a dependency must be loaded before the unit that references it.
func (c *Catalog) ResolveDep(library, unit string) (obj.ArenaID, error) {
	if gen, ok := c.loaded[key{Library: library, Unit: unit}]; ok {
		return gen, nil
	}
	return obj.NoArena, fmt.Errorf("library: dependency %s.%s not loaded; load it before its dependent", library, unit)
}

// Units lists the unit names persisted under library.
func (c *Catalog) Units(library string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(c.root, library))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "library: list units")
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".nvu") {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(name, ".nvu"))
		if err != nil {
			continue
		}
		out = append(out, string(raw))
	}
	return out, nil
}
