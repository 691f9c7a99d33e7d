// Package qr renders the voting link for a delegate token as a PNG QR code.
package qr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/media"
)

// imageSize is the pixel width of generated codes, large enough to scan from
// a printed badge.
const imageSize = 400

// Generator renders QR codes and persists them through a media store.
type Generator struct {
	frontendURL string
	store       media.Store
	log         *charmlog.Logger
}

// NewGenerator returns a generator that embeds links under frontendURL.
func NewGenerator(frontendURL string, store media.Store) *Generator {
	return &Generator{
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		store:       store,
		log:         logger.Service("qr"),
	}
}

// VotingURL returns the link a delegate lands on after scanning their code.
func (g *Generator) VotingURL(token string) string {
	return fmt.Sprintf("%s/vote?token=%s", g.frontendURL, token)
}

func fileName(token string) string {
	return token + ".png"
}

// Generate renders the code for a token, stores the PNG, and returns its URL.
// Existing codes are reused since tokens never change.
func (g *Generator) Generate(ctx context.Context, token string) (string, error) {
	name := fileName(token)

	exists, err := g.store.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check existing qr code: %w", err)
	}
	if exists {
		g.log.Debug("qr code already exists", "token", token)
		return g.store.URL(name), nil
	}

	png, err := qrcode.Encode(g.VotingURL(token), qrcode.Medium, imageSize)
	if err != nil {
		g.log.Error("failed to encode qr code", "error", err, "token", token)
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	url, err := g.store.Save(ctx, name, "image/png", bytes.NewReader(png), int64(len(png)))
	if err != nil {
		return "", fmt.Errorf("failed to store qr code: %w", err)
	}

	g.log.Debug("qr code generated", "token", token, "url", url)
	return url, nil
}

// GenerateBatch renders codes for every token and returns token to URL
// mappings for the ones that succeeded, plus the first error seen.
func (g *Generator) GenerateBatch(ctx context.Context, tokens []string) (map[string]string, error) {
	urls := make(map[string]string, len(tokens))
	var firstErr error

	for _, token := range tokens {
		url, err := g.Generate(ctx, token)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		urls[token] = url
	}

	g.log.Info("qr batch generated", "requested", len(tokens), "generated", len(urls))
	return urls, firstErr
}
