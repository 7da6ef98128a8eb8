// Package roster downloads the volunteer roster exported as CSV from the
// association's spreadsheet.
package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
)

// ErrNoSource no roster URL configured
var ErrNoSource = errors.New("URL del registro volontari non configurato")

// column layout of the export
const (
	colDisabled   = 0
	colCardID     = 1
	colSurname    = 2
	colName       = 4
	colFiscalCode = 5
	minColumns    = colFiscalCode + 1
)

// Entry one roster row
type Entry struct {
	CardID     int
	Surname    string
	Name       string
	FiscalCode string
	Disabled   bool
}

// Fetcher downloads and parses the roster
type Fetcher struct {
	url      string
	skipRows int
	client   *http.Client
	logger   *zap.Logger
}

// NewFetcher creates a Fetcher from config
func NewFetcher(cfg *config.RosterConfig, logger *zap.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		url:      cfg.URL,
		skipRows: cfg.SkipRows,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Configured reports whether a roster URL is set
func (f *Fetcher) Configured() bool { return f.url != "" }

// Fetch downloads the CSV and returns its volunteer rows
func (f *Fetcher) Fetch(ctx context.Context) ([]Entry, error) {
	if f.url == "" {
		return nil, ErrNoSource
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("richiesta registro volontari: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download registro volontari: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download registro volontari: stato HTTP %d", resp.StatusCode)
	}

	entries, skipped, err := Parse(resp.Body, f.skipRows)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		f.logger.Warn("righe del registro ignorate", zap.Int("skipped", skipped))
	}
	f.logger.Info("registro volontari scaricato", zap.Int("volunteers", len(entries)))
	return entries, nil
}

// Parse reads the export: the header row plus skipRows rows are dropped;
// column 0 non-empty marks a disabled volunteer, then card id, surname,
// (unused), name, fiscal code. Rows that are too short or whose card id is
// not a number are skipped and counted.
func Parse(r io.Reader, skipRows int) ([]Entry, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		entries []Entry
		skipped int
		row     int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				row++
				continue
			}
			return nil, skipped, fmt.Errorf("lettura CSV: %w", err)
		}

		row++
		if row <= skipRows+1 {
			continue
		}

		entry, ok := parseRecord(record)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

func parseRecord(record []string) (Entry, bool) {
	if len(record) < minColumns {
		return Entry{}, false
	}
	cardID, err := strconv.Atoi(strings.TrimSpace(record[colCardID]))
	if err != nil || cardID <= 0 {
		return Entry{}, false
	}
	return Entry{
		CardID:     cardID,
		Surname:    strings.TrimSpace(record[colSurname]),
		Name:       strings.TrimSpace(record[colName]),
		FiscalCode: strings.TrimSpace(record[colFiscalCode]),
		Disabled:   strings.TrimSpace(record[colDisabled]) != "",
	}, true
}
