// Package uploads stages multipart files on local disk until the media store
// has taken them.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Stager writes incoming files below Dir.
type Stager struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

// NewStager creates the staging directory if needed.
func NewStager(dir string, maxBytes int64, logger *zap.Logger) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Stager{dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

// NewBatch starts a set of files that are removed together.
func (s *Stager) NewBatch() *Batch {
	return &Batch{stager: s}
}

// Batch tracks the files staged for one request.
type Batch struct {
	stager *Stager
	mu     sync.Mutex
	paths  []string
}

// Save stages the file sent under field and returns its local path. A request
// without that field yields "" and no error. The content is sniffed so an
// image field cannot carry anything but an image.
func (b *Batch) Save(c echo.Context, field string, kind media.Kind) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperror.BadRequest(fmt.Sprintf("Could not read %s file", field)).WithCause(err)
	}
	if b.stager.maxBytes > 0 && header.Size > b.stager.maxBytes {
		return "", apperror.BadRequest(fmt.Sprintf("%s file is too large", field))
	}

	src, err := header.Open()
	if err != nil {
		return "", apperror.Wrap(err, "Error opening uploaded file")
	}
	defer src.Close()

	sniff := make([]byte, 512)
	n, err := src.Read(sniff)
	if err != nil && err != io.EOF {
		return "", apperror.Wrap(err, "Error reading uploaded file")
	}
	if !allowed(kind, http.DetectContentType(sniff[:n])) {
		return "", apperror.BadRequest(fmt.Sprintf("%s must be a %s file", field, kind))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperror.Wrap(err, "Error reading uploaded file")
	}

	dst, err := os.CreateTemp(b.stager.dir, field+"-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", apperror.Wrap(err, "Error staging uploaded file")
	}
	b.track(dst.Name())

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", apperror.Wrap(err, "Error staging uploaded file")
	}
	if err := dst.Close(); err != nil {
		return "", apperror.Wrap(err, "Error staging uploaded file")
	}
	return dst.Name(), nil
}

// Cleanup removes every file staged by the batch.
func (b *Batch) Cleanup() {
	b.mu.Lock()
	paths := b.paths
	b.paths = nil
	b.mu.Unlock()

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.stager.logger.Warn("Failed to remove staged upload", zap.String("path", p), zap.Error(err))
		}
	}
}

func (b *Batch) track(path string) {
	b.mu.Lock()
	b.paths = append(b.paths, path)
	b.mu.Unlock()
}

func allowed(kind media.Kind, contentType string) bool {
	switch kind {
	case media.KindImage:
		return strings.HasPrefix(contentType, "image/")
	case media.KindVideo:
		// Several containers are not recognised by the sniffer.
		return strings.HasPrefix(contentType, "video/") ||
			strings.HasPrefix(contentType, "audio/") ||
			contentType == "application/octet-stream"
	default:
		return false
	}
}
