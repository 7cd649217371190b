package attachment

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultMaxBytes is the upload size limit when none is configured
	DefaultMaxBytes = 10 * 1024 * 1024

	pdfExt         = ".pdf"
	pdfContentType = "application/pdf"
)

var (
	// ErrNotFound is returned when a resume file does not exist
	ErrNotFound = errors.New("file not found")

	// ErrInvalidFilename is returned for names that escape the resume directory
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrNotPDF is returned when an upload is not a PDF
	ErrNotPDF = errors.New("only PDF files are allowed")

	// ErrTooLarge is returned when an upload exceeds the size limit
	ErrTooLarge = errors.New("file too large")

	// ErrDisplayNameRequired is returned when an upload has no display name
	ErrDisplayNameRequired = errors.New("display name is required")

	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// Resume describes a stored resume file
type Resume struct {
	Filename    string    `json:"filename"`
	DisplayName string    `json:"displayName"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Store keeps resume PDFs in a directory on the local file system
type Store struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a Store rooted at dir
func NewStore(dir string, maxBytes int64, logger *slog.Logger) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// Dir returns the root directory
func (s *Store) Dir() string {
	return s.dir
}

// ResolvePath maps a resume name to its location on disk
func (s *Store) ResolvePath(resumeName string) string {
	return filepath.Join(s.dir, filepath.Base(resumeName))
}

// Exists reports whether a regular file exists at path
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ReadBytes returns the file content at path
func (s *Store) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return data, nil
}

// List returns stored PDF resumes, newest first
func (s *Store) List() ([]Resume, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume directory: %w", err)
	}

	resumes := make([]Resume, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pdfExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("Failed to stat resume file",
				slog.String("filename", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		resumes = append(resumes, Resume{
			Filename:    entry.Name(),
			DisplayName: displayName(entry.Name()),
			Size:        info.Size(),
			UploadedAt:  info.ModTime(),
		})
	}

	sort.SliceStable(resumes, func(i, j int) bool {
		return resumes[i].UploadedAt.After(resumes[j].UploadedAt)
	})

	return resumes, nil
}

// Save writes an uploaded PDF under a sanitized, timestamped file name
func (s *Store) Save(name, contentType string, size int64, r io.Reader) (*Resume, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDisplayNameRequired
	}
	if contentType != pdfContentType {
		return nil, ErrNotPDF
	}
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory: %w", err)
	}

	safe := whitespaceRun.ReplaceAllString(unsafeNameChars.ReplaceAllString(name, ""), "-")
	uploadedAt := s.now()
	filename := fmt.Sprintf("%s-%d%s", safe, uploadedAt.UnixMilli(), pdfExt)
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write resume file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	s.logger.Info("Resume saved",
		slog.String("filename", filename),
		slog.Int64("size", written),
	)

	return &Resume{
		Filename:    filename,
		DisplayName: name,
		Size:        written,
		UploadedAt:  uploadedAt,
	}, nil
}

// Delete removes a resume by file name
func (s *Store) Delete(filename string) error {
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return ErrInvalidFilename
	}

	path := filepath.Join(s.dir, filename)
	if !s.Exists(path) {
		return ErrNotFound
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete resume file: %w", err)
	}

	s.logger.Info("Resume deleted", slog.String("filename", filename))
	return nil
}

func displayName(filename string) string {
	return strings.ReplaceAll(strings.TrimSuffix(filename, pdfExt), "-", " ")
}
