package asset

import (
	"errors"
	"fmt"
)

// Entry names one file to load.
type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// List is the asset section of a project manifest.
type List struct {
	Textures []Entry `yaml:"textures"`
	Atlases  []Entry `yaml:"atlases"`
	Fonts    []Entry `yaml:"fonts"`
	Shaders  []Entry `yaml:"shaders"`
	Sounds   []Entry `yaml:"sounds"`
	Music    []Entry `yaml:"music"`
}

// Len returns the number of entries.
func (l List) Len() int {
	return len(l.Textures) + len(l.Atlases) + len(l.Fonts) + len(l.Shaders) + len(l.Sounds) + len(l.Music)
}

// LoadList loads every entry of l. Failures are collected; the remaining
// entries still load.
func (m *Manager) LoadList(l List) error {
	var errs []error
	load := func(entries []Entry, fn func(name, path string) error) {
		for _, e := range entries {
			if e.Name == "" {
				errs = append(errs, fmt.Errorf("scion/asset: entry %q has no name", e.Path))
				continue
			}
			if err := fn(e.Name, e.Path); err != nil {
				errs = append(errs, err)
			}
		}
	}
	load(l.Textures, func(n, p string) error { _, err := m.LoadTexture(n, p); return err })
	load(l.Atlases, func(n, p string) error { _, err := m.LoadAtlas(n, p); return err })
	load(l.Fonts, func(n, p string) error { _, err := m.LoadFont(n, p); return err })
	load(l.Shaders, func(n, p string) error { _, err := m.LoadShader(n, p); return err })
	load(l.Sounds, func(n, p string) error { _, err := m.LoadSound(n, p); return err })
	load(l.Music, func(n, p string) error { _, err := m.LoadMusic(n, p); return err })
	return errors.Join(errs...)
}
