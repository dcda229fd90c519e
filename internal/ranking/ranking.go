// Package ranking defines the records that flow through a report run and
// the query that selects them.
package ranking

import (
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/nicemap/internal/queryir"
)

// Record is one ranked child as read from storage.
// X and Y are EPSG:3857 easting/northing in meters.
type Record struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Score     float64 `json:"score"`
}

// Normalize returns the record with its text fields in Unicode NFC, so that
// names typed with combining marks compare and render like precomposed ones.
func (r Record) Normalize() Record {
	r.FirstName = norm.NFC.String(r.FirstName)
	r.LastName = norm.NFC.String(r.LastName)
	r.City = norm.NFC.String(r.City)
	r.Country = norm.NFC.String(r.Country)
	return r
}

// FullName joins first and last name.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// GeoRecord is a Record whose projected coordinates were replaced by
// geographic ones (EPSG:4326 degrees).
type GeoRecord struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Score     float64 `json:"score"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// FullName joins first and last name.
func (g GeoRecord) FullName() string {
	return g.FirstName + " " + g.LastName
}

// FormatScore renders a score without trailing zeros: 20 -> "20", 9.5 -> "9.5".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// TopQuery selects the limit best-scored children for period.
//
// All five joins are inner joins: a child without a behavior row for the
// period, a household, a city, a country or an elf plan is not ranked.
// Columns are declared in Record field order.
func TopQuery(period, limit int) queryir.Select {
	return queryir.Select{
		From: queryir.Table{Name: "children", Alias: "c"},
		Joins: []queryir.Join{
			{Table: queryir.Table{Name: "behavior", Alias: "b"}, LeftField: "c.id", RightField: "b.child_id"},
			{Table: queryir.Table{Name: "households", Alias: "h"}, LeftField: "c.household_id", RightField: "h.id"},
			{Table: queryir.Table{Name: "cities", Alias: "ct"}, LeftField: "h.city_id", RightField: "ct.id"},
			{Table: queryir.Table{Name: "countries", Alias: "co"}, LeftField: "ct.country_code", RightField: "co.code"},
			{Table: queryir.Table{Name: "elf_plan", Alias: "ep"}, LeftField: "c.id", RightField: "ep.child_id"},
		},
		Columns: []queryir.Column{
			{Field: "c.first_name"},
			{Field: "c.last_name"},
			{Field: "ct.name", As: "city"},
			{Field: "co.name", As: "country"},
			{Field: "ep.x_m"},
			{Field: "ep.y_m"},
			{Field: "b.nice_score"},
		},
		Filter:  queryir.Equals{Field: "b.year", Value: queryir.Int(period)},
		OrderBy: []queryir.Order{{Field: "b.nice_score", Desc: true}},
		Limit:   limit,
	}
}
