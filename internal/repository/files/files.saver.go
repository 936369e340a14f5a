package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// maxDuplicates bounds the "name (n).ext" probing of DiskSaver.
const maxDuplicates = 1000

// DiskSaver writes downloaded artifacts into a local directory. An existing
// file is never overwritten; the new one is saved as "name (n).ext".
type DiskSaver struct {
	dir string
}

// NewDiskSaver returns a saver rooted at dir. The directory is created on
// the first save.
func NewDiskSaver(dir string) *DiskSaver {
	return &DiskSaver{dir: dir}
}

// Dir is the directory artifacts are saved into.
func (s *DiskSaver) Dir() string {
	return s.dir
}

// Save stores content under the suggested filename.
func (s *DiskSaver) Save(ctx context.Context, filename string, content []byte) error {
	_, err := s.SaveFile(ctx, filename, content)
	return err
}

// SaveFile stores content under the suggested filename and returns the path
// it was written to.
func (s *DiskSaver) SaveFile(ctx context.Context, filename string, content []byte) (string, error) {
	name := SecureFilename(filename)
	if name == "" {
		return "", errors.NewValidationError(fmt.Sprintf("cannot save %q: invalid file name", filename), nil)
	}
	if err := createDirectoryIfNotExists(s.dir); err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 0; n < maxDuplicates; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(s.dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.NewInternalError("failed to create file", err)
		}

		if _, err := f.Write(content); err != nil {
			f.Close()
			os.Remove(path)
			return "", errors.NewInternalError("failed to write file", err)
		}
		if err := f.Close(); err != nil {
			return "", errors.NewInternalError("failed to close file", err)
		}

		nuts.L.Infof("[DiskSaver] Saved %s (%d bytes)", path, len(content))
		return path, nil
	}

	return "", errors.NewInternalError(fmt.Sprintf("too many copies of %s in %s", name, s.dir), nil)
}
