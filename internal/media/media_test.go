package media

import (
	"path/filepath"
	"testing"

	"github.com/incvoting/voting-api/internal/config"
)

func testMediaConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Media.Backend = "filesystem"
	cfg.Media.CandidatesDir = filepath.Join(t.TempDir(), "candidates")
	cfg.Media.QRCodesDir = filepath.Join(t.TempDir(), "qr-codes")
	cfg.Media.MaxFileSize = 10 << 20
	return cfg
}
