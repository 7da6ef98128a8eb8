package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
)

const sample = `Sospeso,Tessera,Cognome,Data,Nome,Codice fiscale
Registro 2026,,,,,
,,,,,
,12,Rossi,01/01/2020,Mario,RSSMRA80A01H501U
X,15,Bianchi,02/02/2021,Anna,BNCNNA85B42F205Z
,abc,Verdi,,Luca,VRDLCU
,20,Neri
, 21 , Esposito ,,Gina , SPSGNI
`

func TestParse(t *testing.T) {
	entries, skipped, err := Parse(strings.NewReader(sample), 2)
	require.NoError(t, err)

	want := []Entry{
		{CardID: 12, Surname: "Rossi", Name: "Mario", FiscalCode: "RSSMRA80A01H501U"},
		{CardID: 15, Surname: "Bianchi", Name: "Anna", FiscalCode: "BNCNNA85B42F205Z", Disabled: true},
		{CardID: 21, Surname: "Esposito", Name: "Gina", FiscalCode: "SPSGNI"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, skipped)
}

func TestParse_Empty(t *testing.T) {
	entries, skipped, err := Parse(strings.NewReader(""), 2)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, skipped)
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	f := NewFetcher(&config.RosterConfig{URL: srv.URL, SkipRows: 2, Timeout: time.Second}, zap.NewNop())
	entries, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(&config.RosterConfig{URL: srv.URL}, zap.NewNop())
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetcher_NotConfigured(t *testing.T) {
	f := NewFetcher(&config.RosterConfig{}, zap.NewNop())

	assert.False(t, f.Configured())
	_, err := f.Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrNoSource))
}
