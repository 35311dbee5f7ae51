package data

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Bundle is every data table the game needs at startup.
type Bundle struct {
	Manifest   *Manifest
	Archetypes *ArchetypeTable
}

// LoadAll reads the asset manifest and archetype table concurrently. An
// empty archetypes path yields an empty table.
func LoadAll(ctx context.Context, manifestPath, archetypesPath string) (*Bundle, error) {
	var b Bundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		b.Manifest = m
		return nil
	})
	g.Go(func() error {
		if archetypesPath == "" {
			b.Archetypes = &ArchetypeTable{entries: map[string]*ArchetypeEntry{}}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := LoadArchetypeTable(archetypesPath)
		if err != nil {
			return err
		}
		b.Archetypes = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}
