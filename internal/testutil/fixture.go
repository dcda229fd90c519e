package testutil

import (
	"bytes"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

//go:embed schema.sql
var schemaSQL string

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Fixture is the content of a ranking database, one slice per table.
type Fixture struct {
	Countries  []Country   `yaml:"countries"`
	Cities     []City      `yaml:"cities"`
	Households []Household `yaml:"households"`
	Children   []Child     `yaml:"children"`
	Behavior   []Behavior  `yaml:"behavior"`
	ElfPlan    []ElfPlan   `yaml:"elf_plan"`
}

// Country is a row of the countries table.
type Country struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// City is a row of the cities table.
type City struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	CountryCode string `yaml:"country_code"`
}

// Household is a row of the households table.
type Household struct {
	ID     int64 `yaml:"id"`
	CityID int64 `yaml:"city_id"`
}

// Child.HouseholdID is optional; a nil value stores NULL.
type Child struct {
	ID          int64  `yaml:"id"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	HouseholdID *int64 `yaml:"household_id,omitempty"`
}

// Behavior is one yearly nice score of a child.
type Behavior struct {
	ChildID   int64   `yaml:"child_id"`
	Year      int     `yaml:"year"`
	NiceScore float64 `yaml:"nice_score"`
}

// ElfPlan holds a child's EPSG:3857 position in meters.
type ElfPlan struct {
	ChildID int64   `yaml:"child_id"`
	X       float64 `yaml:"x_m"`
	Y       float64 `yaml:"y_m"`
}

// ParseFixture decodes a YAML fixture. Unknown fields are rejected so typos
// in fixture files fail loudly.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads one of the embedded fixtures by name (without extension).
func LoadFixture(name string) (*Fixture, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read fixture %q: %w", name, err)
	}
	return ParseFixture(data)
}

// WriteDatabase creates the schema at path and inserts the fixture rows.
func (f *Fixture) WriteDatabase(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range f.Countries {
		if _, err := tx.Exec(`INSERT INTO countries (code, name) VALUES (?, ?)`, c.Code, c.Name); err != nil {
			return fmt.Errorf("insert country %s: %w", c.Code, err)
		}
	}
	for _, c := range f.Cities {
		if _, err := tx.Exec(`INSERT INTO cities (id, name, country_code) VALUES (?, ?, ?)`, c.ID, c.Name, c.CountryCode); err != nil {
			return fmt.Errorf("insert city %d: %w", c.ID, err)
		}
	}
	for _, h := range f.Households {
		if _, err := tx.Exec(`INSERT INTO households (id, city_id) VALUES (?, ?)`, h.ID, h.CityID); err != nil {
			return fmt.Errorf("insert household %d: %w", h.ID, err)
		}
	}
	for _, c := range f.Children {
		if _, err := tx.Exec(`INSERT INTO children (id, first_name, last_name, household_id) VALUES (?, ?, ?, ?)`,
			c.ID, c.FirstName, c.LastName, c.HouseholdID); err != nil {
			return fmt.Errorf("insert child %d: %w", c.ID, err)
		}
	}
	for _, b := range f.Behavior {
		if _, err := tx.Exec(`INSERT INTO behavior (child_id, year, nice_score) VALUES (?, ?, ?)`, b.ChildID, b.Year, b.NiceScore); err != nil {
			return fmt.Errorf("insert behavior %d/%d: %w", b.ChildID, b.Year, err)
		}
	}
	for _, p := range f.ElfPlan {
		if _, err := tx.Exec(`INSERT INTO elf_plan (child_id, x_m, y_m) VALUES (?, ?, ?)`, p.ChildID, p.X, p.Y); err != nil {
			return fmt.Errorf("insert elf plan %d: %w", p.ChildID, err)
		}
	}

	return tx.Commit()
}

// FixtureDB builds a temporary SQLite database from the named embedded
// fixture and returns its path.
func FixtureDB(t *testing.T, name string) string {
	t.Helper()
	f, err := LoadFixture(name)
	if err != nil {
		t.Fatalf("LoadFixture(%q) failed: %v", name, err)
	}
	return NewDB(t, f)
}

// NewDB writes f into a fresh database under t.TempDir and returns its path.
func NewDB(t *testing.T, f *Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kids.db")
	if err := f.WriteDatabase(path); err != nil {
		t.Fatalf("WriteDatabase() failed: %v", err)
	}
	return path
}
