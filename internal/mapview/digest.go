package mapview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainMarkers separates marker digests from any other hash of the same
// bytes. The version suffix allows changing the payload later.
const DomainMarkers = "nicemap/markers/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// digestPayload is the semantic content of a map: everything except the
// generated element ids.
type digestPayload struct {
	Center  LatLon   `json:"center"`
	Zoom    int      `json:"zoom"`
	Markers []Marker `json:"markers"`
}

// Digest fingerprints the map's semantic content (center, zoom, markers in
// order). Two maps built from the same records have the same digest even
// when their element ids differ.
func (m *Map) Digest() (string, error) {
	markers := m.markers
	if markers == nil {
		markers = []Marker{}
	}
	data, err := json.Marshal(digestPayload{Center: m.center, Zoom: m.zoom, Markers: markers})
	if err != nil {
		return "", fmt.Errorf("marshal marker data: %w", err)
	}
	return hashWithDomain(DomainMarkers, data), nil
}
