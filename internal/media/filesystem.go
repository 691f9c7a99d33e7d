package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/incvoting/voting-api/internal/logger"
)

// FilesystemStore keeps objects in a local directory served statically by the
// HTTP server.
type FilesystemStore struct {
	baseDir   string
	urlPrefix string
	log       *charmlog.Logger
}

// NewFilesystemStore creates the directory if needed and returns the store.
func NewFilesystemStore(baseDir, urlPrefix string) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory %s: %w", baseDir, err)
	}

	return &FilesystemStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		log:       logger.Media("filesystem"),
	}, nil
}

// BaseDir returns the directory objects are written to; the server mounts it
// as a static route.
func (s *FilesystemStore) BaseDir() string {
	return s.baseDir
}

func (s *FilesystemStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Base(name))

	dst, err := os.Create(path)
	if err != nil {
		s.log.Error("failed to create media file", "error", err, "path", path)
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		s.log.Error("failed to write media file", "error", err, "path", path)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.log.Debug("media file saved", "path", path, "size", size, "content_type", contentType)
	return s.URL(name), nil
}

func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.baseDir, filepath.Base(name)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat media file: %w", err)
}

func (s *FilesystemStore) URL(name string) string {
	return s.urlPrefix + "/" + filepath.Base(name)
}
