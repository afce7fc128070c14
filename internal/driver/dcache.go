package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"nuir/internal/diag"
	"nuir/internal/ir"
	"nuir/internal/project"
	"nuir/internal/source"
)

// cacheSchema меняется при любом изменении cacheEntry.
const cacheSchema uint16 = 1

// DiskCache keeps generation results keyed by content+options digest.
// Entries live under <dir>/ir/<aa>/<rest>.mp.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cacheEntry struct {
	Schema      uint16
	Path        string
	ContentHash project.Digest
	Block       *ir.Block
	Diagnostics []diag.Diagnostic
	State       string
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache dir: %w", err)
	}
	return OpenDiskCacheAt(filepath.Join(root, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) entryPath(key project.Digest) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "ir", name[:2], name[2:]+".mp")
}

func (c *DiskCache) store(key project.Digest, e *cacheEntry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.entryPath(key)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	// rename атомарен, читатели не видят половину записи
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// load reports a miss for absent entries and for entries of another schema.
func (c *DiskCache) load(key project.Digest) (*cacheEntry, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.entryPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e cacheEntry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if e.Schema != cacheSchema {
		return nil, nil
	}
	return &e, nil
}

// Purge removes every cached entry and leaves an empty root behind.
func (c *DiskCache) Purge() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "ir")); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return os.MkdirAll(c.dir, 0o755)
}

func cacheKey(f *source.File, opts Options) project.Digest {
	return project.Combine(project.Digest(f.Hash), project.StringDigest(opts.fingerprint()))
}

func newCacheEntry(res *Result) *cacheEntry {
	return &cacheEntry{
		Schema:      cacheSchema,
		Path:        res.File.Path,
		ContentHash: project.Digest(res.File.Hash),
		Block:       res.Block,
		Diagnostics: res.Bag.Items(),
		State:       res.State,
	}
}

// result rebinds cached spans to the file id of the current FileSet.
func (e *cacheEntry) result(f *source.File, maxDiagnostics int) *Result {
	bag := diag.NewBag(maxDiagnostics)
	for _, d := range e.Diagnostics {
		if !d.Primary.IsZero() {
			d.Primary.File = f.ID
		}
		bag.Add(d)
	}
	return &Result{File: f, Block: e.Block, Bag: bag, State: e.State, Cached: true}
}
