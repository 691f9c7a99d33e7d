// Package media abstracts where uploaded candidate images and generated QR
// codes live: the local filesystem by default, or a MinIO/S3 bucket.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/incvoting/voting-api/internal/config"
)

// Store saves binary objects and answers existence checks. URLs returned by
// Save are what clients use to fetch the object back.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Exists(ctx context.Context, name string) (bool, error)
	URL(name string) string
}

// NewCandidateStore returns the store used for candidate images.
func NewCandidateStore(cfg *config.Config) (Store, error) {
	return newStore(cfg, cfg.Media.CandidatesDir, "/candidates")
}

// NewQRCodeStore returns the store used for generated QR code PNGs.
func NewQRCodeStore(cfg *config.Config) (Store, error) {
	return newStore(cfg, cfg.Media.QRCodesDir, "/qr-codes")
}

func newStore(cfg *config.Config, dir, urlPrefix string) (Store, error) {
	switch cfg.Media.Backend {
	case "", "filesystem":
		return NewFilesystemStore(dir, urlPrefix)
	case "minio":
		return NewMinioStore(cfg, urlPrefix)
	default:
		return nil, fmt.Errorf("unsupported media backend: %s", cfg.Media.Backend)
	}
}
