// FilePath: server/sweeps/internal/console/console.attachment.go
package console

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
)

// attachmentSaver hands a downloaded artifact to the browser, which saves it
// under the suggested file name. Once committed, the response carries the
// artifact and can no longer answer an error.
type attachmentSaver struct {
	w         http.ResponseWriter
	committed bool
}

func (a *attachmentSaver) Save(ctx context.Context, filename string, content []byte) error {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := a.w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	a.w.WriteHeader(http.StatusOK)
	a.committed = true

	_, err := a.w.Write(content)
	return err
}
