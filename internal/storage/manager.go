package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNoFiles is returned by Latest when the upload directory is empty.
	ErrNoFiles = errors.New("no uploaded files")
	// ErrNotFound is returned by Resolve for unknown or unsafe names.
	ErrNotFound = errors.New("file not found")
)

// SavedFile describes a file written by Save.
type SavedFile struct {
	Name string // stored name, "<unix>_<sanitized>"
	Path string
	Size int64
}

// Store defines the interface for the upload directory.
type Store interface {
	Save(original string, r io.Reader) (*SavedFile, error)
	Latest() (string, error)
	List() ([]string, error)
	Clear() error
	Resolve(name string) (string, error)
	Dir() string
}

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	uploadDir string
	now       func() time.Time
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		now:       time.Now,
	}, nil
}

// Dir returns the upload directory.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// Save writes r under a timestamp-prefixed sanitized name. The content is
// not inspected.
func (s *LocalStore) Save(original string, r io.Reader) (*SavedFile, error) {
	// The directory may have been removed since startup.
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s", s.now().Unix(), SanitizeFilename(original))
	path := filepath.Join(s.uploadDir, name)

	tmpPath := filepath.Join(s.uploadDir, "."+uuid.New().String()+".part")
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("moving file into place: %w", err)
	}

	return &SavedFile{Name: name, Path: path, Size: size}, nil
}

// Latest returns the path of the most recently written file.
func (s *LocalStore) Latest() (string, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoFiles
		}
		return "", fmt.Errorf("reading upload directory: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if !isStoredFile(entry) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = entry.Name()
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", ErrNoFiles
	}
	return filepath.Join(s.uploadDir, latest), nil
}

// List returns the stored file names.
func (s *LocalStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if isStoredFile(entry) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Clear removes every file in the upload directory. The first failure
// aborts the sweep.
func (s *LocalStore) Clear() error {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading upload directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, entry.Name())); err != nil {
			return fmt.Errorf("deleting file: %w", err)
		}
	}
	return nil
}

// Resolve returns the absolute path for a stored file name, refusing
// anything that would escape the upload directory.
func (s *LocalStore) Resolve(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", ErrNotFound
	}
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	path := filepath.Join(s.uploadDir, clean)

	rel, err := filepath.Rel(s.uploadDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrNotFound
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return path, nil
}

func isStoredFile(entry os.DirEntry) bool {
	return entry.Type().IsRegular() && !strings.HasSuffix(entry.Name(), ".part")
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client-supplied name to a safe ASCII file name,
// the way werkzeug's secure_filename does.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	ascii := b.String()

	for _, sep := range []string{"/", "\\"} {
		ascii = strings.ReplaceAll(ascii, sep, " ")
	}
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	ext := strings.ToLower(filepath.Ext(name))
	if ascii == "" {
		ascii = "upload"
	}
	if len(ext) > 1 && isASCIIExt(ext) && !strings.HasSuffix(strings.ToLower(ascii), ext) {
		ascii += ext
	}
	return ascii
}

func isASCIIExt(ext string) bool {
	return !unsafeFilenameChars.MatchString(ext[1:])
}
