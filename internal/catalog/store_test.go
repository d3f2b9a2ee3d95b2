package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "products.json"), filepath.Join(dir, "backups"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s
}

func TestWriteReturnsETagAndLastSlug(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Write(Catalog{{"slug": "a"}, {"slug": "b"}})
	require.NoError(t, err)
	require.Equal(t, "b", res.LastSlug)
	require.NotEmpty(t, res.ETag)

	// The returned fingerprint matches the published document.
	etag, err := s.ETag()
	require.NoError(t, err)
	require.Equal(t, res.ETag, etag)
}

func TestWriteBacksUpPreviousDocument(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	_, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)
	firstDoc, err := os.ReadFile(s.Path)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(time.Minute) }
	_, err = s.Write(Catalog{{"slug": "b"}})
	require.NoError(t, err)

	backup, err := os.ReadFile(filepath.Join(s.BackupDir, "products-20260801-120100.json"))
	require.NoError(t, err)
	require.Equal(t, firstDoc, backup)

	// First write archived the implicit empty document.
	empty, err := os.ReadFile(filepath.Join(s.BackupDir, "products-20260801-120000.json"))
	require.NoError(t, err)
	require.Equal(t, []byte("[]"), empty)
}

func TestWriteRejectsMissingSlug(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)
	before, err := s.ETag()
	require.NoError(t, err)

	_, err = s.Write(Catalog{{"slug": "a"}, {"name": "no slug here"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 1, verr.Index)

	// Document and fingerprint untouched.
	after, err := s.ETag()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestWriteRejectsNullElement(t *testing.T) {
	s := newTestStore(t)
	var cat Catalog
	require.NoError(t, json.Unmarshal([]byte(`[{"slug":"a"}, null]`), &cat))

	_, err := s.Write(cat)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 1, verr.Index)
}

func TestReadAbsentFileAsEmptyCatalog(t *testing.T) {
	s := newTestStore(t)

	cat, etag, err := s.Read()
	require.NoError(t, err)
	require.Empty(t, cat)
	require.NotEmpty(t, etag)
}

func TestWriteIfRejectsStaleETag(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)

	_, err = s.Write(Catalog{{"slug": "b"}})
	require.NoError(t, err)

	_, err = s.WriteIf(Catalog{{"slug": "c"}}, res.ETag)
	require.ErrorIs(t, err, ErrETagMismatch)

	cat, _, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, "b", cat.LastSlug())
}

func TestWriteIfMatchingETagSucceeds(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)

	res2, err := s.WriteIf(Catalog{{"slug": "a"}, {"slug": "b"}}, res.ETag)
	require.NoError(t, err)
	require.Equal(t, "b", res2.LastSlug)
	require.NotEqual(t, res.ETag, res2.ETag)
}

func TestWriteIsDeterministic(t *testing.T) {
	s := newTestStore(t)
	cat := Catalog{{"slug": "a", "name": "A", "price": "4.99", "category": "soap"}}

	res1, err := s.Write(cat)
	require.NoError(t, err)
	res2, err := s.Write(cat)
	require.NoError(t, err)
	require.Equal(t, res1.ETag, res2.ETag)
}

// Concurrent writers race on the canonical path; each individual write must
// stay atomic, so the final document always parses as one complete catalog.
func TestConcurrentWritersNeverTearTheDocument(t *testing.T) {
	s := newTestStore(t)

	errc := make(chan error, 80)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := s.Write(Catalog{{"slug": "w"}, {"slug": "x"}})
				errc <- err
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	raw, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	var cat Catalog
	require.NoError(t, json.Unmarshal(raw, &cat))
	require.Len(t, cat, 2)
}

// The direct-overwrite path gives up crash-atomicity: a reader racing the
// overwrite can see a torn document. It exists only for filesystems without
// rename-over semantics and must announce itself in the log.
func TestRenameFailureFallsBackToDirectOverwrite(t *testing.T) {
	dir := t.TempDir()
	var logBuf bytes.Buffer
	s := NewStore(
		filepath.Join(dir, "products.json"),
		filepath.Join(dir, "backups"),
		slog.New(slog.NewJSONHandler(&logBuf, nil)),
	)
	s.rename = func(oldpath, newpath string) error {
		return errors.New("operation not permitted")
	}

	res, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)
	require.NotEmpty(t, res.ETag)

	// The document still lands, complete.
	raw, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	var cat Catalog
	require.NoError(t, json.Unmarshal(raw, &cat))
	require.Equal(t, "a", cat.LastSlug())

	// Weak path taken and announced; temp file cleaned up.
	require.Contains(t, logBuf.String(), "non_atomic_catalog_write")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestBackupFailureDoesNotBlockWrite(t *testing.T) {
	s := newTestStore(t)
	// Point the backup area at a file so MkdirAll fails.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	s.BackupDir = blocker

	res, err := s.Write(Catalog{{"slug": "a"}})
	require.NoError(t, err)
	require.Equal(t, "a", res.LastSlug)

	_, err = os.Stat(s.Path)
	require.NoError(t, err)
}

func TestWriteEmptyCatalogPublishesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Write(Catalog{})
	require.NoError(t, err)
	require.Empty(t, res.LastSlug)

	raw, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(raw))
}

func TestReadCorruptDocumentFails(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
	require.NoError(t, os.WriteFile(s.Path, []byte("{not json"), 0o644))

	_, _, err := s.Read()
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}
