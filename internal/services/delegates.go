package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/qr"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// DelegateService manages the voter registry: CRUD, CSV bulk import, and QR
// code issuance for distributing tokens.
type DelegateService struct {
	delegates postgres.DelegateRepository
	qr        *qr.Generator
	log       *charmlog.Logger
}

// NewDelegateService creates the delegate service. The QR generator may be
// nil when code issuance is not needed.
func NewDelegateService(delegates postgres.DelegateRepository, qrGen *qr.Generator) *DelegateService {
	return &DelegateService{
		delegates: delegates,
		qr:        qrGen,
		log:       logger.Service("delegates"),
	}
}

// Register creates a delegate with a freshly issued token.
func (s *DelegateService) Register(name, gender, community, zone, phone, email string) (*delegate.Delegate, error) {
	d := delegate.New(name, gender, community, zone, phone, email)
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.delegates.Create(d); err != nil {
		return nil, err
	}

	s.log.Info("delegate registered", "delegate_id", d.ID, "zone", d.Zone)
	return d, nil
}

// List returns every registered delegate.
func (s *DelegateService) List() ([]*delegate.Delegate, error) {
	return s.delegates.GetAll()
}

// Get returns one delegate by id.
func (s *DelegateService) Get(id string) (*delegate.Delegate, error) {
	return s.delegates.GetByID(id)
}

// Update writes profile fields. Token and has_voted are never touched here.
func (s *DelegateService) Update(d *delegate.Delegate) error {
	if err := s.delegates.Update(d); err != nil {
		return err
	}
	s.log.Info("delegate updated", "delegate_id", d.ID)
	return nil
}

// Delete removes a delegate together with any votes they cast.
func (s *DelegateService) Delete(id string) error {
	if err := s.delegates.Delete(id); err != nil {
		return err
	}
	s.log.Warn("delegate deleted", "delegate_id", id)
	return nil
}

// csvColumns maps header names to field positions, tolerating column order
// differences between exports.
func csvColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func csvField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ImportCSV bulk-registers delegates from a CSV with a header row. Only the
// name and zone columns are required; gender, community, phone and email are
// optional. Rows that fail validation are skipped and counted, not fatal.
func (s *DelegateService) ImportCSV(filename string, r io.Reader) (*delegate.ImportLog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := csvColumns(header)

	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv is missing the name column")
	}
	if _, ok := cols["zone"]; !ok {
		return nil, fmt.Errorf("csv is missing the zone column")
	}

	var tokens []string
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		d := delegate.New(
			csvField(record, cols, "name"),
			csvField(record, cols, "gender"),
			csvField(record, cols, "community"),
			csvField(record, cols, "zone"),
			csvField(record, cols, "phone"),
			csvField(record, cols, "email"),
		)
		if err := d.Validate(); err != nil {
			skipped++
			s.log.Warn("skipping invalid csv row", "error", err, "row", len(tokens)+skipped+1)
			continue
		}

		if err := s.delegates.Create(d); err != nil {
			skipped++
			s.log.Warn("failed to import delegate", "error", err, "name", d.Name)
			continue
		}
		tokens = append(tokens, d.Token)
	}

	importLog := &delegate.ImportLog{
		Filename: filename,
		Imported: len(tokens),
		Tokens:   tokens,
	}
	if err := s.delegates.RecordImport(importLog); err != nil {
		return nil, err
	}

	s.log.Info("csv import complete", "filename", filename, "imported", len(tokens), "skipped", skipped)
	return importLog, nil
}

// GenerateQRCode issues the voting QR code for one delegate and returns its
// URL together with the encoded voting link.
func (s *DelegateService) GenerateQRCode(ctx context.Context, id string) (*delegate.Delegate, string, error) {
	if s.qr == nil {
		return nil, "", fmt.Errorf("qr generation is not configured")
	}

	d, err := s.delegates.GetByID(id)
	if err != nil {
		return nil, "", err
	}

	url, err := s.qr.Generate(ctx, d.Token)
	if err != nil {
		return nil, "", err
	}
	return d, url, nil
}

// GenerateAllQRCodes issues codes for every delegate. It returns the token to
// URL mappings that succeeded, the number of tokens that failed, and the first
// error seen, so callers can report partial progress.
func (s *DelegateService) GenerateAllQRCodes(ctx context.Context) (map[string]string, int, error) {
	if s.qr == nil {
		return nil, 0, fmt.Errorf("qr generation is not configured")
	}

	all, err := s.delegates.GetAll()
	if err != nil {
		return nil, 0, err
	}

	tokens := make([]string, 0, len(all))
	for _, d := range all {
		tokens = append(tokens, d.Token)
	}

	urls, err := s.qr.GenerateBatch(ctx, tokens)
	return urls, len(tokens) - len(urls), err
}

// VotingURL returns the link encoded in a delegate's QR code.
func (s *DelegateService) VotingURL(token string) string {
	if s.qr == nil {
		return ""
	}
	return s.qr.VotingURL(token)
}
