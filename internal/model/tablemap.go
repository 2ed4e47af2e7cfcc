package model

import "encoding/json"

// The floor-plan state lives inside the singleton event_config row as one
// JSON document rather than normalized rows.  The layout is edited rarely
// and only by admins, so a schema-on-read document keeps it flexible
// without migrations.  Older deployments stored a bare JSON array of
// markers; every read path must normalize that shape before use.

const (
    // TableMapVersion tags the current document schema.
    TableMapVersion = 1

    // DefaultMarkerSize is the marker diameter (px) applied when a
    // document carries no explicit size.
    DefaultMarkerSize = 24

    // MinMarkerSize and MaxMarkerSize bound accepted marker sizes.
    // Values outside the range are ignored, not clamped to the bound.
    MinMarkerSize = 12
    MaxMarkerSize = 48
)

// Marker is one point on the floor-plan image.  X and Y are percentages of
// the background image so the layout scales with the rendered size.  Every
// saved marker is linked to exactly one physical table whose capacity
// matches Chairs; TableNumber mirrors that table's generated name.
type Marker struct {
    ID          uint64  `json:"id"`
    X           float64 `json:"x"`
    Y           float64 `json:"y"`
    Chairs      int     `json:"chairs"`
    TableID     uint64  `json:"table_id"`
    TableNumber string  `json:"table_number"`
}

// TableMap is the marker document stored in event_config.value.
type TableMap struct {
    Version    int      `json:"version"`
    Markers    []Marker `json:"markers"`
    MarkerSize int      `json:"markerSize"`
}

// NewTableMap returns an empty current-version document.
func NewTableMap() TableMap {
    return TableMap{Version: TableMapVersion, Markers: []Marker{}, MarkerSize: DefaultMarkerSize}
}

// ParseTableMap decodes a stored document, accepting every historical
// shape: empty/NULL column, legacy bare array, pre-versioning object and
// the current tagged form.  The result is always a normalized
// current-version document.
func ParseTableMap(raw []byte) (TableMap, error) {
    if len(raw) == 0 {
        return NewTableMap(), nil
    }
    // Legacy format: a bare array of markers.
    var legacy []Marker
    if err := json.Unmarshal(raw, &legacy); err == nil {
        m := NewTableMap()
        m.Markers = legacy
        if m.Markers == nil {
            m.Markers = []Marker{}
        }
        return m, nil
    }
    var doc TableMap
    if err := json.Unmarshal(raw, &doc); err != nil {
        return TableMap{}, err
    }
    doc.Version = TableMapVersion
    if doc.Markers == nil {
        doc.Markers = []Marker{}
    }
    if !ValidMarkerSize(doc.MarkerSize) {
        doc.MarkerSize = DefaultMarkerSize
    }
    return doc, nil
}

// Encode serializes the document for storage, always in the current
// versioned shape.
func (m TableMap) Encode() ([]byte, error) {
    m.Version = TableMapVersion
    if m.Markers == nil {
        m.Markers = []Marker{}
    }
    return json.Marshal(m)
}

// NextMarkerID allocates the id for a new marker: one past the highest id
// currently in the document, or 1 when empty.  Ids are scoped to the
// document, so removing the highest marker frees its id for reuse.
func (m TableMap) NextMarkerID() uint64 {
    var max uint64
    for _, mk := range m.Markers {
        if mk.ID > max {
            max = mk.ID
        }
    }
    return max + 1
}

// Find returns the index of the marker with the given id, or -1.
func (m TableMap) Find(id uint64) int {
    for i, mk := range m.Markers {
        if mk.ID == id {
            return i
        }
    }
    return -1
}

// Remove drops the marker with the given id.  It reports whether a marker
// was removed.
func (m *TableMap) Remove(id uint64) bool {
    i := m.Find(id)
    if i < 0 {
        return false
    }
    m.Markers = append(m.Markers[:i], m.Markers[i+1:]...)
    return true
}

// ValidMarkerSize reports whether n is an acceptable marker size.  Callers
// silently ignore out-of-range values rather than erroring.
func ValidMarkerSize(n int) bool {
    return n >= MinMarkerSize && n <= MaxMarkerSize
}
