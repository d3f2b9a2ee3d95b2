package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrETagMismatch is returned by WriteIf when the document changed since the
// caller last read it.
var ErrETagMismatch = errors.New("catalog etag mismatch")

// Store persists the catalog as a single JSON document. Every write archives
// the previous document into BackupDir and publishes the new one atomically,
// so a concurrent reader sees either the old or the new document, never a mix.
type Store struct {
	Path      string // canonical document, e.g. ./site/products.json
	BackupDir string

	log    *slog.Logger
	now    func() time.Time
	rename func(oldpath, newpath string) error
}

func NewStore(path, backupDir string, log *slog.Logger) *Store {
	return &Store{Path: path, BackupDir: backupDir, log: log, now: time.Now, rename: os.Rename}
}

// WriteResult carries the fingerprint of the published document plus the slug
// of the last record (the editor redirects to it after saving).
type WriteResult struct {
	ETag     string
	LastSlug string
}

// Read returns the current catalog and its ETag. An absent file reads as an
// empty catalog.
func (s *Store) Read() (Catalog, string, error) {
	raw, err := s.readRaw()
	if err != nil {
		return nil, "", err
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, "", fmt.Errorf("parse catalog %s: %w", s.Path, err)
	}
	return c, etagOf(raw), nil
}

// ETag fingerprints the current document without parsing it.
func (s *Store) ETag() (string, error) {
	raw, err := s.readRaw()
	if err != nil {
		return "", err
	}
	return etagOf(raw), nil
}

// Write validates and publishes a new catalog, replacing the whole document.
// Last writer wins; use WriteIf for optimistic concurrency.
func (s *Store) Write(c Catalog) (WriteResult, error) {
	return s.write(c, "")
}

// WriteIf behaves like Write but fails with ErrETagMismatch when the current
// document's fingerprint differs from expectedETag.
func (s *Store) WriteIf(c Catalog, expectedETag string) (WriteResult, error) {
	return s.write(c, expectedETag)
}

func (s *Store) write(c Catalog, expectedETag string) (WriteResult, error) {
	if err := c.Validate(); err != nil {
		return WriteResult{}, err
	}

	current, err := s.readRaw()
	if err != nil {
		return WriteResult{}, err
	}
	if expectedETag != "" && etagOf(current) != expectedETag {
		return WriteResult{}, ErrETagMismatch
	}

	// Archive the pre-write document first. Best effort: losing a backup must
	// never block the save itself.
	s.backup(current)

	// Deterministic serialization: map keys marshal in sorted order, indented
	// like the editor expects to diff by hand.
	if c == nil {
		c = Catalog{}
	}
	newDoc, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return WriteResult{}, fmt.Errorf("encode catalog: %w", err)
	}
	newDoc = append(newDoc, '\n')

	if err := s.publish(newDoc); err != nil {
		return WriteResult{}, err
	}

	return WriteResult{ETag: etagOf(newDoc), LastSlug: c.LastSlug()}, nil
}

// publish writes newDoc to a uniquely named temp file in the same directory,
// forces it to stable storage and renames it over the canonical path. If the
// rename fails it falls back to a direct overwrite, which gives up
// crash-atomicity; that path is logged loudly.
func (s *Store) publish(newDoc []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp := s.Path + ".tmp-" + uuid.NewString()
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(newDoc); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.rename(tmp, s.Path); err != nil {
		// Weaker path: a reader racing this overwrite can observe a torn
		// document. Kept for filesystems without rename-over semantics.
		s.log.Warn("non_atomic_catalog_write",
			slog.String("path", s.Path),
			slog.String("rename_err", err.Error()),
		)
		os.Remove(tmp)
		if werr := os.WriteFile(s.Path, newDoc, 0o644); werr != nil {
			return fmt.Errorf("save catalog: %w", werr)
		}
	}
	return nil
}

func (s *Store) backup(current []byte) {
	if err := os.MkdirAll(s.BackupDir, 0o755); err != nil {
		s.log.Warn("catalog_backup_failed", slog.String("err", err.Error()))
		return
	}
	name := fmt.Sprintf("products-%s.json", s.now().Format("20060102-150405"))
	path := filepath.Join(s.BackupDir, name)
	if err := os.WriteFile(path, current, 0o644); err != nil {
		s.log.Warn("catalog_backup_failed",
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
	}
}

func (s *Store) readRaw() ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return raw, nil
}

// etagOf matches the HTTP-style quoted sha1 fingerprint the editor already
// stores between saves.
func etagOf(doc []byte) string {
	sum := sha1.Sum(doc)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
