package attachment

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(t.TempDir(), 16, logger)
}

func TestStore_ResolvePathAndRead(t *testing.T) {
	s := newTestStore(t)
	path := s.ResolvePath("resume.pdf")
	assert.Equal(t, filepath.Join(s.Dir(), "resume.pdf"), path)
	assert.False(t, s.Exists(path))

	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	assert.True(t, s.Exists(path))

	data, err := s.ReadBytes(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	assert.Equal(t, filepath.Join(s.Dir(), "passwd"), s.ResolvePath("../../etc/passwd"))
	assert.False(t, s.Exists(s.Dir()), "directories are not attachments")

	_, err = s.ReadBytes(s.ResolvePath("missing.pdf"))
	assert.Error(t, err)
}

func TestStore_Save(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		contentType string
		content     []byte
		wantErr     error
		wantFile    string
	}{
		{
			name:        "valid pdf",
			displayName: "Backend CV (2025)!",
			contentType: "application/pdf",
			content:     []byte("%PDF-1.4"),
			wantFile:    "Backend-CV-2025-1700000000000.pdf",
		},
		{
			name:        "missing display name",
			displayName: "  ",
			contentType: "application/pdf",
			content:     []byte("x"),
			wantErr:     ErrDisplayNameRequired,
		},
		{
			name:        "not a pdf",
			displayName: "cv",
			contentType: "image/png",
			content:     []byte("x"),
			wantErr:     ErrNotPDF,
		},
		{
			name:        "too large",
			displayName: "cv",
			contentType: "application/pdf",
			content:     bytes.Repeat([]byte("a"), 17),
			wantErr:     ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			s.now = func() time.Time { return time.UnixMilli(1700000000000) }

			resume, err := s.Save(tt.displayName, tt.contentType, int64(len(tt.content)), bytes.NewReader(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resume)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, resume.Filename)
			assert.Equal(t, tt.displayName, resume.DisplayName)
			assert.True(t, s.Exists(s.ResolvePath(resume.Filename)))
		})
	}
}

func TestStore_SaveRejectsOversizedStream(t *testing.T) {
	s := newTestStore(t)

	// declared size lies about the real body length
	_, err := s.Save("cv", "application/pdf", 1, bytes.NewReader(bytes.Repeat([]byte("a"), 32)))
	require.ErrorIs(t, err, ErrTooLarge)

	resumes, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, resumes)
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)
	older := filepath.Join(s.Dir(), "old-cv.pdf")
	newer := filepath.Join(s.Dir(), "new-cv.pdf")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))

	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	resumes, err := s.List()
	require.NoError(t, err)
	require.Len(t, resumes, 2)
	assert.Equal(t, "new-cv.pdf", resumes[0].Filename)
	assert.Equal(t, "new cv", resumes[0].DisplayName)
	assert.Equal(t, int64(2), resumes[0].Size)
	assert.Equal(t, "old-cv.pdf", resumes[1].Filename)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "cv.pdf"), []byte("a"), 0o644))

	assert.ErrorIs(t, s.Delete("../cv.pdf"), ErrInvalidFilename)
	assert.ErrorIs(t, s.Delete("sub/cv.pdf"), ErrInvalidFilename)
	assert.ErrorIs(t, s.Delete("missing.pdf"), ErrNotFound)

	require.NoError(t, s.Delete("cv.pdf"))
	assert.False(t, s.Exists(filepath.Join(s.Dir(), "cv.pdf")))
}
