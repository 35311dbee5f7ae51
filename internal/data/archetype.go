package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClipEntry binds an animation kind of an archetype to an animation name.
// Repeat defaults to true, except for the dead clip.
type ClipEntry struct {
	Animation string `yaml:"animation"`
	Repeat    *bool  `yaml:"repeat"`
}

// ArchetypeEntry is the clip table of one entity base name. Kinds missing
// from Clips are looked up by naming convention (<Name><Suffix>).
type ArchetypeEntry struct {
	Name  string               `yaml:"name"`
	Clips map[string]ClipEntry `yaml:"clips"`
}

// ArchetypeTable provides lookup of archetypes by base name.
type ArchetypeTable struct {
	entries map[string]*ArchetypeEntry
	order   []string
}

// LoadArchetypeTable loads archetypes.yaml.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	t, err := ParseArchetypeTable(raw)
	if err != nil {
		return nil, fmt.Errorf("archetypes %s: %w", path, err)
	}
	return t, nil
}

func ParseArchetypeTable(raw []byte) (*ArchetypeTable, error) {
	var entries []ArchetypeEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	t := &ArchetypeTable{
		entries: make(map[string]*ArchetypeEntry, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("archetype #%d has no name", i)
		}
		if _, dup := t.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", e.Name)
		}
		t.entries[e.Name] = e
		t.order = append(t.order, e.Name)
	}
	return t, nil
}

// Get returns the archetype with the given base name, or nil if none.
func (t *ArchetypeTable) Get(name string) *ArchetypeEntry {
	if t == nil {
		return nil
	}
	return t.entries[name]
}

// Names lists archetypes in file order.
func (t *ArchetypeTable) Names() []string {
	if t == nil {
		return nil
	}
	return t.order
}

// Count returns the total number of archetypes loaded.
func (t *ArchetypeTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// RepeatFor resolves the repeat flag of a clip declared under kind.
func (c ClipEntry) RepeatFor(kind string) bool {
	if c.Repeat != nil {
		return *c.Repeat
	}
	return kind != "dead"
}
