package models

import (
	"sort"
)

type ManifestEntry struct {
	Value  string
	Secret bool
}

// OutputManifest is the flat record of a completed run. Secret entries are
// tracked separately while collecting but serialized as plain values.
type OutputManifest struct {
	entries map[string]ManifestEntry
}

func NewOutputManifest() *OutputManifest {
	return &OutputManifest{entries: make(map[string]ManifestEntry)}
}

func (m *OutputManifest) Set(key, value string) {
	m.entries[key] = ManifestEntry{Value: value}
}

func (m *OutputManifest) SetSecret(key, value string) {
	m.entries[key] = ManifestEntry{Value: value, Secret: true}
}

func (m *OutputManifest) Get(key string) (ManifestEntry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

func (m *OutputManifest) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SecretCount is the number of sensitive entries.
func (m *OutputManifest) SecretCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Secret {
			n++
		}
	}
	return n
}

// Flat returns the key -> value form written to disk.
func (m *OutputManifest) Flat() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, e := range m.entries {
		out[k] = e.Value
	}
	return out
}
