// Package mapview renders ranked records as an interactive Leaflet map in a
// single self-contained HTML file.
package mapview

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"

	"github.com/roach88/nicemap/internal/ranking"
)

// DefaultZoom shows the whole world.
const DefaultZoom = 2

const (
	leafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	leafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

//go:embed map.tmpl.html
var pageSource string

var pageTemplate = template.Must(template.New("map").Parse(pageSource))

// ErrNoMarkers is returned when a map would be built from zero records.
var ErrNoMarkers = errors.New("no markers to render")

// LatLon is a geographic position in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is one annotated point. Popup is trusted HTML; build it with
// PopupHTML so record fields are escaped.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Title string  `json:"title"`
	Popup string  `json:"popup"`
}

// Map is an in-memory map page.
type Map struct {
	Title   string
	center  LatLon
	zoom    int
	ids     IDGenerator
	markers []Marker
}

// New creates an empty map. A nil ids uses UUIDGenerator.
func New(center LatLon, zoom int, ids IDGenerator) *Map {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Map{Title: "nicemap", center: center, zoom: zoom, ids: ids}
}

// AddMarker appends a marker; markers render in insertion order.
func (m *Map) AddMarker(mk Marker) {
	m.markers = append(m.markers, mk)
}

// Center returns the initial viewport center.
func (m *Map) Center() LatLon { return m.center }

// Zoom returns the initial zoom level.
func (m *Map) Zoom() int { return m.zoom }

// Markers returns a copy of the markers in order.
func (m *Map) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// FromRecords builds a map centered on the first (highest-ranked) record
// with one marker per record.
func FromRecords(records []ranking.GeoRecord, zoom int, ids IDGenerator) (*Map, error) {
	if len(records) == 0 {
		return nil, ErrNoMarkers
	}

	m := New(LatLon{Lat: records[0].Lat, Lon: records[0].Lon}, zoom, ids)
	for _, r := range records {
		m.AddMarker(Marker{
			Lat:   r.Lat,
			Lon:   r.Lon,
			Title: r.FullName(),
			Popup: PopupHTML(r),
		})
	}
	return m, nil
}

// PopupHTML formats the popup for a record:
//
//	First Last (City, Country)<br>Score: 20
func PopupHTML(r ranking.GeoRecord) string {
	return fmt.Sprintf("%s %s (%s, %s)<br>Score: %s",
		html.EscapeString(r.FirstName),
		html.EscapeString(r.LastName),
		html.EscapeString(r.City),
		html.EscapeString(r.Country),
		ranking.FormatScore(r.Score),
	)
}

type pageView struct {
	ID      string   `json:"id"`
	Center  LatLon   `json:"center"`
	Zoom    int      `json:"zoom"`
	Markers []Marker `json:"markers"`
}

type pageData struct {
	Title      string
	LeafletCSS string
	LeafletJS  string
	View       pageView
}

// Render writes the HTML page.
func (m *Map) Render(w io.Writer) error {
	markers := m.markers
	if markers == nil {
		markers = []Marker{}
	}
	data := pageData{
		Title:      m.Title,
		LeafletCSS: leafletCSS,
		LeafletJS:  leafletJS,
		View: pageView{
			ID:      m.ids.Generate("map"),
			Center:  m.center,
			Zoom:    m.zoom,
			Markers: markers,
		},
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// Save renders the page to path, replacing any existing file.
// Nothing is written if rendering fails.
func (m *Map) Save(path string) error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}
