// FilePath: server/sweeps/internal/repository/files/files.storage.go
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultMaxFileSize = 32 * 1024 * 1024 // 32MB
	defaultPermissions = 0755
	filePermissions    = 0644
)

// FileConfig holds configuration for the artifact storage
type FileConfig struct {
	BasePath    string
	MaxFileSize int64
}

// FileRepo keeps sweep artifacts as flat files under BasePath, addressed by
// their sanitized file name.
type FileRepo struct {
	config FileConfig
}

// NewFileRepository creates a new file storage repository
func NewFileRepository(config FileConfig) (*FileRepo, error) {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = defaultMaxFileSize
	}
	if err := createDirectoryIfNotExists(config.BasePath); err != nil {
		return nil, err
	}
	return &FileRepo{config: config}, nil
}

// MaxFileSize is the largest artifact Store accepts.
func (r *FileRepo) MaxFileSize() int64 {
	return r.config.MaxFileSize
}

// Store writes src under the sanitized form of name, replacing an existing
// artifact of the same name. It returns the stored name and its size.
func (r *FileRepo) Store(ctx context.Context, name string, src io.Reader) (string, int64, error) {
	filename := SecureFilename(name)
	if filename == "" {
		return "", 0, errors.NewValidationError("invalid file name", nil)
	}

	dst, err := os.Create(filepath.Join(r.config.BasePath, filename))
	if err != nil {
		return "", 0, errors.NewInternalError("failed to create destination file", err)
	}
	defer dst.Close()

	// one byte over the limit is enough to know the upload is too large
	written, err := io.Copy(dst, io.LimitReader(src, r.config.MaxFileSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", 0, errors.NewInternalError("failed to copy file", err)
	}
	if written > r.config.MaxFileSize {
		os.Remove(dst.Name())
		return "", 0, errors.NewValidationError(
			fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", r.config.MaxFileSize),
			nil,
		)
	}

	nuts.L.Infof("[FileRepo] Stored file: %s (%d bytes)", filename, written)
	return filename, written, nil
}

// Stat returns the size of a stored artifact.
func (r *FileRepo) Stat(ctx context.Context, filename string) (int64, error) {
	path, err := r.path(filename)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFoundError("file not found", err)
		}
		return 0, errors.NewInternalError("failed to stat file", err)
	}
	if info.IsDir() {
		return 0, errors.NewNotFoundError("file not found", nil)
	}
	return info.Size(), nil
}

// Delete removes a stored artifact.
func (r *FileRepo) Delete(ctx context.Context, filename string) error {
	path, err := r.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("file not found", err)
		}
		return errors.NewInternalError("failed to delete file", err)
	}
	return nil
}

// StreamFile implements the streaming of a file to an io.Writer
func (r *FileRepo) StreamFile(ctx context.Context, filename string, w io.Writer) error {
	path, err := r.path(filename)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("file not found", err)
		}
		return errors.NewInternalError("failed to open file", err)
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	if err != nil {
		return errors.NewInternalError("failed to stream file", err)
	}

	return nil
}

// path rejects names that would leave BasePath.
func (r *FileRepo) path(filename string) (string, error) {
	if filename == "" || filename != SecureFilename(filename) {
		return "", errors.NewNotFoundError("file not found", nil)
	}
	return filepath.Join(r.config.BasePath, filename), nil
}

// SecureFilename reduces name to a flat ASCII file name: path separators
// become spaces, runs of whitespace become one underscore, characters outside
// [A-Za-z0-9_.-] are dropped and leading or trailing dots and underscores
// are trimmed.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)

	var b strings.Builder
	for _, field := range strings.Fields(name) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range field {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-') {
				b.WriteRune(r)
			}
		}
	}
	return strings.Trim(b.String(), "._")
}

func createDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		err := os.MkdirAll(path, defaultPermissions)
		if err != nil {
			return errors.NewInternalError("failed to create directory", err)
		}
	}
	return nil
}
