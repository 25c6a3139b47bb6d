package mapping

import (
	"encoding/json"
	"slices"
)

// DirectoryEntry pairs a service definition name with its mapped path.
type DirectoryEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Directory is the read-only lookup table served at the registry path. It
// lists exactly the services that were mapped, in mapping order.
type Directory struct {
	entries []DirectoryEntry
	byName  map[string]int
}

func newDirectory(capacity int) *Directory {
	return &Directory{
		entries: make([]DirectoryEntry, 0, capacity),
		byName:  make(map[string]int, capacity),
	}
}

func (d *Directory) add(name, path string) {
	if _, ok := d.byName[name]; !ok {
		d.byName[name] = len(d.entries)
	}
	d.entries = append(d.entries, DirectoryEntry{Name: name, Path: path})
}

// Len returns the number of mapped services.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Entries returns the directory in mapping order.
func (d *Directory) Entries() []DirectoryEntry {
	return slices.Clone(d.entries)
}

// Names returns the definition names in mapping order.
func (d *Directory) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Path returns the path of the first service mapped under name.
func (d *Directory) Path(name string) (string, bool) {
	i, ok := d.byName[name]
	if !ok {
		return "", false
	}
	return d.entries[i].Path, true
}

// MarshalJSON encodes the directory as {"services": [{"name", "path"}...]}.
func (d *Directory) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Services []DirectoryEntry `json:"services"`
	}{Services: d.entries})
}
