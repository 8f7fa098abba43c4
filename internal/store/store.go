// Package store is the concurrent file store (spec component C6): the
// authoritative in-memory catalog paired one-to-one with files in a managed
// directory, guarded by a single reader-writer lock so the pairing can
// never be observed half-updated. Persistence is the single flush() call on
// shutdown; everything else is memory plus the filesystem.
//
// The locking/persistence shape is grounded on
// kTowkA-shortener/internal/storage/memory/memory.go (a mutex-guarded map
// with JSON persistence), generalized from a single mutex to a RWMutex
// since this store has a real read path (get/view/list) worth letting run
// concurrently, and from append-only JSON lines to a single atomic
// marshal-the-whole-catalog write since spec.md requires flush() to be one
// write, not a log.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/logger"
	"github.com/filevault/server/internal/model"
)

// Store is the file store for one endpoint. It owns the managed directory
// and the catalog exclusively; nothing outside this package mutates either.
type Store struct {
	dir          string
	metadataPath string
	idKey        string
	dataKey      string
	log          *logger.Log

	mu        sync.RWMutex
	catalog   map[int64]*model.FileEntry
	currentID int64 // accessed atomically; mutated only under mu (write lock)

	now func() time.Time
}

// New constructs a store rooted at dir, persisting to metadataPath using
// idKey/dataKey as the metadata file's top-level field names. If
// metadataPath exists it is loaded; otherwise the store starts empty with
// currentID at zero, per the "new entry's id equals currentId after a
// single pre-increment" invariant.
func New(dir, metadataPath, idKey, dataKey string, log *logger.Log) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Config("create file directory %q: %v", dir, err)
	}
	s := &Store{
		dir:          dir,
		metadataPath: metadataPath,
		idKey:        idKey,
		dataKey:      dataKey,
		log:          log,
		catalog:      make(map[int64]*model.FileEntry),
		now:          time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Add creates name on disk with the given bytes and a new catalog entry.
// On a write failure it rolls the partially-created file back; if the
// rollback itself fails, the caller gets a 500 with Rollback set and the
// failure is logged at warning level so an operator can reconcile by hand.
func (s *Store) Add(name string, body []byte) (*model.FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, apperr.Store(400, "file %q already exists", name)
		}
		return nil, apperr.Store(500, "create %q: %v", name, err)
	}

	if _, werr := f.Write(body); werr != nil {
		f.Close()
		if rerr := os.Remove(target); rerr != nil {
			s.log.Warn("store: rollback of partial file failed, manual cleanup required", "file", name, "writeErr", werr, "removeErr", rerr)
			return nil, apperr.StoreRollback("write %q failed (%v) and rollback also failed (%v)", name, werr, rerr)
		}
		return nil, apperr.Store(500, "write %q: %v", name, werr)
	}
	if err := f.Close(); err != nil {
		return nil, apperr.Store(500, "close %q: %v", name, err)
	}

	id := atomic.AddInt64(&s.currentID, 1)
	entry := model.NewFileEntry(id, name, int64(len(body)), s.now())
	s.catalog[id] = entry
	return entry, nil
}

// Get resolves identifier to a name (through the catalog for an id,
// verbatim for a name) and returns its bytes from disk.
func (s *Store) Get(identifier Identifier) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, err := s.resolveNameLenient(identifier)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, "", apperr.Store(404, "file %q not found", name)
	}
	if err != nil {
		return nil, "", apperr.Store(500, "read %q: %v", name, err)
	}
	if len(data) == 0 {
		return nil, "", apperr.Store(500, "file %q read as empty", name)
	}
	return data, name, nil
}

// View returns the catalog entry for identifier.
func (s *Store) View(identifier Identifier) (*model.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.lookup(identifier)
	if !ok {
		return nil, apperr.Store(404, "%s not found", identifier)
	}
	return entry, nil
}

// List returns catalog entries matching query, sorted ascending by id. The
// sentinel "all" returns every entry; otherwise an entry matches when its
// name contains query, or query contains the entry's id as a decimal
// string (spec.md §4.6 notes this second rule is intentionally
// asymmetric).
func (s *Store) List(query string) []*model.FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.FileEntry
	for _, entry := range s.catalog {
		if query == "all" ||
			strings.Contains(entry.FileName, query) ||
			strings.Contains(query, strconv.FormatInt(entry.FileID, 10)) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileID < out[j].FileID })
	return out
}

// Override resolves identifier through the catalog, replaces the file's
// bytes on disk, and refreshes its size and updated-time. It does not
// rename.
func (s *Store) Override(identifier Identifier, body []byte) (*model.FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(identifier)
	if !ok {
		return nil, apperr.Store(404, "%s not found", identifier)
	}
	if err := os.WriteFile(s.path(entry.FileName), body, 0o644); err != nil {
		return nil, apperr.Store(500, "override %q: %v", entry.FileName, err)
	}
	entry.FileSize = model.SizeString(int64(len(body)))
	entry.TimeUpdated = s.now().Format(model.TimestampLayout)
	return entry, nil
}

// Rename resolves identifier through the catalog and renames its file to
// newName, failing if newName already exists on disk. File-type equality
// between old and new names is enforced by the caller (the rename handler),
// not here, per spec.md §4.6.
func (s *Store) Rename(identifier Identifier, newName string) (*model.FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(identifier)
	if !ok {
		return nil, apperr.Store(404, "%s not found", identifier)
	}
	if _, err := os.Stat(s.path(newName)); err == nil {
		return nil, apperr.Store(400, "file %q already exists", newName)
	} else if !os.IsNotExist(err) {
		return nil, apperr.Store(500, "stat %q: %v", newName, err)
	}
	if err := os.Rename(s.path(entry.FileName), s.path(newName)); err != nil {
		return nil, apperr.Store(500, "rename %q to %q: %v", entry.FileName, newName, err)
	}
	entry.FileName = newName
	entry.FileType = model.TypeTagOf(newName)
	entry.TimeUpdated = s.now().Format(model.TimestampLayout)
	return entry, nil
}

// Delete resolves identifier through the catalog, removes the file on
// disk, and removes its catalog entry. The id counter is never decremented.
func (s *Store) Delete(identifier Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(identifier)
	if !ok {
		return apperr.Store(404, "%s not found", identifier)
	}
	if err := os.Remove(s.path(entry.FileName)); err != nil && !os.IsNotExist(err) {
		return apperr.Store(500, "delete %q: %v", entry.FileName, err)
	}
	delete(s.catalog, entry.FileID)
	return nil
}

// lookup finds a catalog entry by id or by name under the caller's lock.
func (s *Store) lookup(identifier Identifier) (*model.FileEntry, bool) {
	if identifier.byID {
		entry, ok := s.catalog[identifier.id]
		return entry, ok
	}
	for _, entry := range s.catalog {
		if entry.FileName == identifier.name {
			return entry, true
		}
	}
	return nil, false
}

// resolveNameLenient implements get()'s looser resolution rule: an id must
// go through the catalog (so an unknown id fails before touching disk), but
// a name is used as-is even if no catalog entry tracks it.
func (s *Store) resolveNameLenient(identifier Identifier) (string, error) {
	if !identifier.byID {
		return identifier.name, nil
	}
	entry, ok := s.catalog[identifier.id]
	if !ok {
		return "", apperr.Store(404, "%s not found", identifier)
	}
	return entry.FileName, nil
}

// metadataFile mirrors the on-disk JSON shape of spec.md §6, with
// configurable top-level key names.
type metadataFile struct {
	currentID int64
	data      map[string]*model.FileEntry
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.metadataPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return apperr.Config("read metadata file %q: %v", s.metadataPath, err)
	}
	mf, err := decodeMetadata(raw, s.idKey, s.dataKey)
	if err != nil {
		return apperr.Config("decode metadata file %q: %v", s.metadataPath, err)
	}
	s.currentID = mf.currentID
	for idStr, entry := range mf.data {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		s.catalog[id] = entry
	}
	return nil
}

// Flush serializes the id counter and the catalog to the metadata file in
// a single write: the only durability point this system has. Writes to a
// temp file and renames over the target so a crash mid-write cannot leave a
// half-written metadata file.
func (s *Store) Flush() error {
	s.mu.RLock()
	raw, err := encodeMetadata(atomic.LoadInt64(&s.currentID), s.catalog, s.idKey, s.dataKey)
	s.mu.RUnlock()
	if err != nil {
		return apperr.Store(500, "encode metadata: %v", err)
	}

	tmp := s.metadataPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return apperr.Store(500, "write metadata temp file: %v", err)
	}
	if err := os.Rename(tmp, s.metadataPath); err != nil {
		return apperr.Store(500, "rename metadata temp file: %v", err)
	}
	return nil
}

// Dir reports the store's managed directory.
func (s *Store) Dir() string { return s.dir }
