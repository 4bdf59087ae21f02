package dispatchx

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Snapshot describes the registry contents at a point in time: which payload
// types have listeners and how many. Type keys are rendered as display names
// only; the keys themselves are never serialized.
type Snapshot struct {
	Types []TypeEntry `json:"types" yaml:"types"`
}

// TypeEntry is one registered payload type and its listener count.
type TypeEntry struct {
	Type      string `json:"type" yaml:"type"`
	Listeners int    `json:"listeners" yaml:"listeners"`
}

// Snapshot returns a copy of the registry shape, ordered by type name.
// Dispatch never mutates the registry, so a snapshot taken between calls is
// stable until the next Subscribe.
func (d *Dispatcher) Snapshot() Snapshot {
	d.lock()
	defer d.unlock()

	s := Snapshot{Types: make([]TypeEntry, 0, len(d.listeners))}
	for t, seq := range d.listeners {
		s.Types = append(s.Types, TypeEntry{Type: t.String(), Listeners: len(seq)})
	}
	sort.Slice(s.Types, func(i, j int) bool {
		return s.Types[i].Type < s.Types[j].Type
	})
	return s
}

// WriteYAML serializes the snapshot to w as YAML.
func (s Snapshot) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteJSON serializes the snapshot to w as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
