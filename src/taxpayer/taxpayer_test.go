package taxpayer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jernejstrasner/taxes/src/resolver"
	"github.com/stretchr/testify/require"
)

var fullAnswers = resolver.Static{
	"taxpayer:taxNumber":  "12345678",
	"taxpayer:name":       "Janez Novak",
	"taxpayer:address":    "Dunajska cesta 1",
	"taxpayer:city":       "Ljubljana",
	"taxpayer:postNumber": "1000",
	"taxpayer:postName":   "Ljubljana",
	"taxpayer:email":      "janez@example.com",
	"taxpayer:phone":      "+38640123456",
	"taxpayer:birthDate":  "1990-05-01",
}

func TestLoadFirstRunAsksAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxpayer.xml")

	tp, err := Load(path, fullAnswers)
	require.NoError(t, err)
	require.Equal(t, "12345678", tp.TaxNumber)
	require.Equal(t, "Janez Novak", tp.Name)

	// The completed record is persisted; a reload asks for nothing.
	_, err = os.Stat(path)
	require.NoError(t, err)
	reloaded, err := Load(path, resolver.FailFast{})
	require.NoError(t, err)
	require.Equal(t, tp.TaxNumber, reloaded.TaxNumber)
	require.Equal(t, tp.Email, reloaded.Email)
	require.Equal(t, tp.BirthDate, reloaded.BirthDate)
}

func TestLoadFillsMissingFieldsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxpayer.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<taxpayer>
  <taxNumber>12345678</taxNumber>
  <name>Janez Novak</name>
  <address>Dunajska cesta 1</address>
  <city>Ljubljana</city>
  <postNumber>1000</postNumber>
  <postName>Ljubljana</postName>
  <birthDate>1990-05-01</birthDate>
</taxpayer>
`), 0o644))

	tp, err := Load(path, resolver.Static{
		"taxpayer:email": "janez@example.com",
		"taxpayer:phone": "+38640123456",
	})
	require.NoError(t, err)
	require.Equal(t, "12345678", tp.TaxNumber)
	require.Equal(t, "janez@example.com", tp.Email)
	require.Equal(t, "+38640123456", tp.Phone)
}

func TestLoadRejectsBadBirthDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxpayer.xml")
	answers := resolver.Static{}
	for k, v := range fullAnswers {
		answers[k] = v
	}
	answers["taxpayer:birthDate"] = "not-a-date"

	_, err := Load(path, answers)
	require.Error(t, err)
}

func TestBirthDateTime(t *testing.T) {
	tp := &Taxpayer{BirthDate: "1990-05-01"}
	date, err := tp.BirthDateTime()
	require.NoError(t, err)
	require.Equal(t, 1990, date.Year())
}
