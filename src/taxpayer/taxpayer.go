// Package taxpayer loads and stores the filer's personal details. The
// details go into every report header, so missing fields are resolved
// interactively once and persisted next to the other cached data.
package taxpayer

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/resolver"
	"github.com/jernejstrasner/taxes/src/utils"
)

// Taxpayer holds the header fields of every FURS report.
type Taxpayer struct {
	XMLName    xml.Name `xml:"taxpayer"`
	TaxNumber  string   `xml:"taxNumber"`
	Name       string   `xml:"name"`
	Address    string   `xml:"address"`
	City       string   `xml:"city"`
	PostNumber string   `xml:"postNumber"`
	PostName   string   `xml:"postName"`
	Email      string   `xml:"email"`
	Phone      string   `xml:"phone"`
	BirthDate  string   `xml:"birthDate"` // YYYY-MM-DD
}

// fields drives both interactive completion and the save order.
var fields = []struct {
	name string
	get  func(*Taxpayer) *string
}{
	{"taxNumber", func(t *Taxpayer) *string { return &t.TaxNumber }},
	{"name", func(t *Taxpayer) *string { return &t.Name }},
	{"address", func(t *Taxpayer) *string { return &t.Address }},
	{"city", func(t *Taxpayer) *string { return &t.City }},
	{"postNumber", func(t *Taxpayer) *string { return &t.PostNumber }},
	{"postName", func(t *Taxpayer) *string { return &t.PostName }},
	{"email", func(t *Taxpayer) *string { return &t.Email }},
	{"phone", func(t *Taxpayer) *string { return &t.Phone }},
	{"birthDate", func(t *Taxpayer) *string { return &t.BirthDate }},
}

// Load reads the taxpayer file at path, asking the resolver for any field
// the file is missing. A missing file means a first run, so every field is
// asked for and the completed record is written back.
func Load(path string, res resolver.Resolver) (*Taxpayer, error) {
	t := &Taxpayer{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := xml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("taxpayer file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.L.Info("No taxpayer file yet, asking for details", "path", path)
	default:
		return nil, fmt.Errorf("reading taxpayer file %s: %w", path, err)
	}

	changed := false
	for _, f := range fields {
		field := f.get(t)
		if *field != "" {
			continue
		}
		value, err := res.Resolve("taxpayer:"+f.name, fmt.Sprintf("Enter your %s", f.name))
		if err != nil {
			return nil, fmt.Errorf("taxpayer %s: %w", f.name, err)
		}
		*field = value
		changed = true
	}
	if _, err := t.BirthDateTime(); err != nil {
		return nil, err
	}

	if changed {
		if err := Save(path, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Save writes the record so the next run does not ask again.
func Save(path string, t *Taxpayer) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	data, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding taxpayer: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(xml.Header), append(data, '\n')...), 0o644); err != nil {
		return fmt.Errorf("writing taxpayer file %s: %w", path, err)
	}
	return nil
}

// BirthDateTime parses the stored birth date.
func (t *Taxpayer) BirthDateTime() (time.Time, error) {
	date, err := utils.ParseDate(t.BirthDate, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("taxpayer birth date: %w", err)
	}
	return date, nil
}
