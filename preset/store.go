// Package preset serves curated records for known note identifiers. Presets
// are loaded once from YAML and are read-only afterwards.
package preset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/xhsnote"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Ensure Store implements xhsnote.PresetService at compile time.
var _ xhsnote.PresetService = (*Store)(nil)

// Entry is a preset as written in YAML: a record keyed by its note id.
type Entry struct {
	NoteID         string `yaml:"note_id"`
	xhsnote.Record `yaml:",inline"`
}

type document struct {
	Presets []Entry `yaml:"presets"`
}

// Store is an immutable note id to record table.
type Store struct {
	records map[string]*xhsnote.Record
}

// New creates a Store from entries. Records are normalized on the way in.
// Returns EINVALID for an entry without a note id or a duplicate id.
func New(entries ...Entry) (*Store, error) {
	s := &Store{records: make(map[string]*xhsnote.Record, len(entries))}
	for i, e := range entries {
		if e.NoteID == "" {
			return nil, xhsnote.Errorf(xhsnote.EINVALID, "preset %d: note_id required", i)
		}
		if _, ok := s.records[e.NoteID]; ok {
			return nil, xhsnote.Errorf(xhsnote.EINVALID, "preset %d: duplicate note_id %q", i, e.NoteID)
		}
		rec := e.Record.Clone()
		rec.Normalize()
		s.records[e.NoteID] = rec
	}
	return s, nil
}

// Load reads presets from a YAML document with a top-level "presets" list.
// An empty document yields an empty store.
func Load(r io.Reader) (*Store, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "parse presets: %v", err)
	}
	return New(doc.Presets...)
}

// LoadFile reads presets from the YAML file at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Default returns the store built from the presets bundled with the binary.
func Default() *Store {
	s, err := Load(bytes.NewReader(defaultPresets))
	if err != nil {
		panic(fmt.Sprintf("preset: bundled presets are invalid: %v", err))
	}
	return s
}

// Lookup returns a copy of the preset for noteID, so callers may modify it.
func (s *Store) Lookup(noteID string) (*xhsnote.Record, bool) {
	rec, ok := s.records[noteID]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Len returns the number of presets.
func (s *Store) Len() int {
	return len(s.records)
}
