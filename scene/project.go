package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/scion/asset"
)

// SceneRef names a scene file of a project.
type SceneRef struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Project is the YAML project manifest.
type Project struct {
	Name    string     `yaml:"name"`
	Main    string     `yaml:"main"`
	Startup string     `yaml:"startup"`
	Scenes  []SceneRef `yaml:"scenes"`
	Assets  asset.List `yaml:"assets"`

	// Dir is the directory of the manifest; relative paths resolve
	// against it.
	Dir string `yaml:"-"`
}

// LoadProject reads and validates a project manifest.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scion/scene: read project: %w", err)
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("scion/scene: %s: %w", path, err)
	}
	p.Dir = filepath.Dir(path)
	return p, nil
}

// ParseProject decodes a manifest without touching the filesystem.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Name == "" {
		return nil, errors.New("project has no name")
	}
	if p.Startup == "" && len(p.Scenes) > 0 {
		p.Startup = p.Scenes[0].Name
	}
	if p.Startup != "" {
		if _, ok := p.scene(p.Startup); !ok {
			return nil, fmt.Errorf("startup scene %q is not listed", p.Startup)
		}
	}
	return &p, nil
}

func (p *Project) scene(name string) (SceneRef, bool) {
	for _, s := range p.Scenes {
		if s.Name == name {
			return s, true
		}
	}
	return SceneRef{}, false
}

// Path resolves a manifest-relative path.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) || p.Dir == "" {
		return rel
	}
	return filepath.Join(p.Dir, rel)
}

// ScenePath returns the resolved file of a named scene.
func (p *Project) ScenePath(name string) (string, bool) {
	s, ok := p.scene(name)
	if !ok {
		return "", false
	}
	return p.Path(s.Path), true
}

// Files lists every file the manifest references, relative to Dir, in
// manifest order and without duplicates.
func (p *Project) Files() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	add(p.Main)
	for _, s := range p.Scenes {
		add(s.Path)
	}
	for _, group := range [][]asset.Entry{p.Assets.Textures, p.Assets.Atlases, p.Assets.Fonts,
		p.Assets.Shaders, p.Assets.Sounds, p.Assets.Music} {
		for _, e := range group {
			add(e.Path)
		}
	}
	return out
}
