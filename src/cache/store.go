// Package cache persists company and country lookups between filing runs so
// values typed in once (ISINs, payer addresses, relief statements) are not
// asked for again.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jernejstrasner/taxes/src/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS company (
	symbol  TEXT PRIMARY KEY,
	isin    TEXT,
	address TEXT
);

CREATE TABLE IF NOT EXISTS country (
	code             TEXT PRIMARY KEY,
	relief_statement TEXT,
	name             TEXT
);
`

// Store is a typed key-value store over sqlite. Reads and the Set methods
// are the only access paths; there is no ad hoc schema.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path, ensuring the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: creating directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: ensuring schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) companyField(symbol, column string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT "+column+" FROM company WHERE symbol = ?", symbol).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: reading company %s: %w", column, err)
	}
	return value.String, value.Valid && value.String != "", nil
}

func (s *Store) setCompanyField(symbol, column, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO company (symbol, "+column+") VALUES (?, ?) "+
			"ON CONFLICT(symbol) DO UPDATE SET "+column+" = excluded."+column,
		symbol, value)
	if err != nil {
		return fmt.Errorf("cache: writing company %s: %w", column, err)
	}
	return nil
}

func (s *Store) ISIN(symbol string) (string, bool, error) {
	return s.companyField(symbol, "isin")
}

func (s *Store) SetISIN(symbol, isin string) error {
	return s.setCompanyField(symbol, "isin", isin)
}

func (s *Store) Address(symbol string) (string, bool, error) {
	return s.companyField(symbol, "address")
}

func (s *Store) SetAddress(symbol, address string) error {
	return s.setCompanyField(symbol, "address", address)
}

func (s *Store) countryField(code, column string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT "+column+" FROM country WHERE code = ?", code).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: reading country %s: %w", column, err)
	}
	return value.String, value.Valid && value.String != "", nil
}

func (s *Store) setCountryField(code, column, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO country (code, "+column+") VALUES (?, ?) "+
			"ON CONFLICT(code) DO UPDATE SET "+column+" = excluded."+column,
		code, value)
	if err != nil {
		return fmt.Errorf("cache: writing country %s: %w", column, err)
	}
	return nil
}

func (s *Store) ReliefStatement(code string) (string, bool, error) {
	return s.countryField(code, "relief_statement")
}

func (s *Store) SetReliefStatement(code, statement string) error {
	return s.setCountryField(code, "relief_statement", statement)
}

func (s *Store) CountryName(code string) (string, bool, error) {
	return s.countryField(code, "name")
}

func (s *Store) SetCountryName(code, name string) error {
	return s.setCountryField(code, "name", name)
}

// FillISINs bulk-loads symbol -> ISIN pairs from a broker instrument export.
func (s *Store) FillISINs(rows []models.InstrumentInfo) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: starting ISIN fill: %w", err)
	}
	for _, row := range rows {
		if row.Symbol == "" || row.ISIN == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO company (symbol, isin) VALUES (?, ?) "+
				"ON CONFLICT(symbol) DO UPDATE SET isin = excluded.isin",
			row.Symbol, row.ISIN); err != nil {
			tx.Rollback()
			return fmt.Errorf("cache: filling ISIN for %s: %w", row.Symbol, err)
		}
	}
	return tx.Commit()
}
