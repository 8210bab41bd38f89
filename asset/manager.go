// Package asset loads and owns textures, fonts, shaders, atlases and audio
// clips, and reloads them when their files change.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/audio"
	"github.com/phanxgames/scion/render"
	"github.com/phanxgames/scion/system"
)

// ErrNotFound is returned for names the manager does not know.
var ErrNotFound = errors.New("asset: not found")

type kind int

const (
	kindTexture kind = iota
	kindFont
	kindShader
	kindAtlas
	kindSound
	kindMusic
)

func (k kind) String() string {
	return [...]string{"texture", "font", "shader", "atlas", "sound", "music"}[k]
}

// source remembers where an asset came from so it can be reloaded.
type source struct {
	kind kind
	name string
	path string
}

type texture struct {
	id  render.ResourceID
	img *ebiten.Image
}

// Manager owns every loaded asset. Everything except the watcher goroutine
// runs on the main thread; the watcher only records dirty paths.
type Manager struct {
	log  *zap.Logger
	root string

	textures map[string]*texture
	images   []*ebiten.Image
	fonts    map[string]*render.Font
	shaders  map[string]*ebiten.Shader
	atlases  map[string]*Atlas
	sounds   map[string]*audio.Sound
	music    map[string]*audio.Music
	sources  map[string]source

	mu      sync.Mutex
	dirty   []string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewManager creates a manager resolving relative paths against root.
func NewManager(root string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:      log,
		root:     root,
		textures: make(map[string]*texture),
		// id 0 is render.WhiteTexture
		images:  []*ebiten.Image{nil},
		fonts:   make(map[string]*render.Font),
		shaders: make(map[string]*ebiten.Shader),
		atlases: make(map[string]*Atlas),
		sounds:  make(map[string]*audio.Sound),
		music:   make(map[string]*audio.Music),
		sources: make(map[string]source),
	}
}

// Root returns the directory relative paths are resolved against.
func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) resolve(path string) string {
	if filepath.IsAbs(path) || m.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(m.root, path)
}

func (m *Manager) remember(k kind, name, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	m.sources[path] = source{kind: k, name: name, path: path}
	if m.watcher != nil {
		m.watchDir(filepath.Dir(path))
	}
}

// AddTexture registers img under name. Replacing an existing texture keeps
// its resource id.
func (m *Manager) AddTexture(name string, img *ebiten.Image) system.Texture {
	if t, ok := m.textures[name]; ok {
		if t.img != nil && t.img != img {
			t.img.Deallocate()
		}
		t.img = img
		m.images[t.id] = img
		return m.describe(t)
	}
	t := &texture{id: render.ResourceID(len(m.images)), img: img}
	m.images = append(m.images, img)
	m.textures[name] = t
	return m.describe(t)
}

func (m *Manager) describe(t *texture) system.Texture {
	b := t.img.Bounds()
	return system.Texture{ID: t.id, Width: b.Dx(), Height: b.Dy()}
}

// LoadTexture decodes a PNG (or any registered image format) file.
func (m *Manager) LoadTexture(name, path string) (system.Texture, error) {
	full := m.resolve(path)
	img, _, err := ebitenutil.NewImageFromFile(full)
	if err != nil {
		return system.Texture{}, fmt.Errorf("scion/asset: texture %q: %w", name, err)
	}
	m.remember(kindTexture, name, full)
	return m.AddTexture(name, img), nil
}

// Texture implements system.Assets.
func (m *Manager) Texture(name string) (system.Texture, bool) {
	t, ok := m.textures[name]
	if !ok || t.img == nil {
		return system.Texture{}, false
	}
	return m.describe(t), true
}

// Image implements render.TextureSource.
func (m *Manager) Image(id render.ResourceID) *ebiten.Image {
	if int(id) >= len(m.images) {
		return nil
	}
	return m.images[id]
}

// LoadFont parses a BMFont file and loads its atlas page from the same
// directory. The page is registered as a texture under its file name.
func (m *Manager) LoadFont(name, path string) (*render.Font, error) {
	full := m.resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: font %q: %w", name, err)
	}
	f, err := render.ParseFont(data, render.WhiteTexture)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: font %q: %w", name, err)
	}
	if f.Page == "" {
		return nil, fmt.Errorf("scion/asset: font %q: no atlas page", name)
	}
	page, ok := m.Texture(f.Page)
	if !ok {
		page, err = m.LoadTexture(f.Page, filepath.Join(filepath.Dir(full), f.Page))
		if err != nil {
			return nil, err
		}
	}
	f.Resource = page.ID
	m.fonts[name] = f
	m.remember(kindFont, name, full)
	return f, nil
}

// Font implements system.Assets.
func (m *Manager) Font(name string) (*render.Font, bool) {
	f, ok := m.fonts[name]
	return f, ok
}

// LoadShader compiles a Kage source file.
func (m *Manager) LoadShader(name, path string) (*ebiten.Shader, error) {
	full := m.resolve(path)
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: shader %q: %w", name, err)
	}
	sh, err := render.CompileShader(name, src)
	if err != nil {
		return nil, err
	}
	if old, ok := m.shaders[name]; ok {
		old.Deallocate()
	}
	m.shaders[name] = sh
	m.remember(kindShader, name, full)
	return sh, nil
}

// Shader implements system.Assets. Built-in shaders compile on first use.
func (m *Manager) Shader(name string) (*ebiten.Shader, bool) {
	if sh, ok := m.shaders[name]; ok {
		return sh, true
	}
	src, ok := render.BuiltinShaders[name]
	if !ok {
		return nil, false
	}
	sh, err := render.CompileShader(name, []byte(src))
	if err != nil {
		m.log.Error("asset manager: built-in shader", zap.String("shader", name), zap.Error(err))
		return nil, false
	}
	m.shaders[name] = sh
	return sh, true
}

// LoadAtlas parses a TexturePacker sheet and loads its pages.
func (m *Manager) LoadAtlas(name, path string) (*Atlas, error) {
	full := m.resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: atlas %q: %w", name, err)
	}
	a, err := ParseAtlas(data)
	if err != nil {
		return nil, err
	}
	for _, page := range a.Pages {
		if _, ok := m.Texture(page); ok {
			continue
		}
		if _, err := m.LoadTexture(page, filepath.Join(filepath.Dir(full), page)); err != nil {
			return nil, err
		}
	}
	m.atlases[name] = a
	m.remember(kindAtlas, name, full)
	return a, nil
}

// Atlas returns a loaded atlas.
func (m *Manager) Atlas(name string) (*Atlas, bool) {
	a, ok := m.atlases[name]
	return a, ok
}

// Region resolves an atlas region to the page texture name and its
// normalized rectangle, ready for a Sprite.
func (m *Manager) Region(atlas, region string) (string, scion.Rect, error) {
	a, ok := m.atlases[atlas]
	if !ok {
		return "", scion.Rect{}, fmt.Errorf("%w: atlas %q", ErrNotFound, atlas)
	}
	r, ok := a.Region(region)
	if !ok || r.Page >= len(a.Pages) {
		return "", scion.Rect{}, fmt.Errorf("%w: region %q in %q", ErrNotFound, region, atlas)
	}
	page := a.Pages[r.Page]
	tex, ok := m.Texture(page)
	if !ok {
		return "", scion.Rect{}, fmt.Errorf("%w: page %q", ErrNotFound, page)
	}
	return page, r.UV(tex.Width, tex.Height), nil
}

// LoadSound decodes a clip fully into memory.
func (m *Manager) LoadSound(name, path string) (*audio.Sound, error) {
	full := m.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: sound %q: %w", name, err)
	}
	st, format, err := audio.Decode(full, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s := audio.NewSound(name, st, format)
	m.sounds[name] = s
	m.remember(kindSound, name, full)
	return s, nil
}

// Sound returns a loaded sound.
func (m *Manager) Sound(name string) (*audio.Sound, bool) {
	s, ok := m.sounds[name]
	return s, ok
}

// LoadMusic opens a track for streaming. The file stays open until the
// manager is closed or the track reloaded.
func (m *Manager) LoadMusic(name, path string) (*audio.Music, error) {
	full := m.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("scion/asset: music %q: %w", name, err)
	}
	st, format, err := audio.Decode(full, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if old, ok := m.music[name]; ok {
		old.Close()
	}
	mus := audio.NewMusic(name, st, format)
	m.music[name] = mus
	m.remember(kindMusic, name, full)
	return mus, nil
}

// Music returns a loaded track.
func (m *Manager) Music(name string) (*audio.Music, bool) {
	mus, ok := m.music[name]
	return mus, ok
}

// Names returns the sorted names of every loaded texture.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.textures))
	for n := range m.textures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// reload loads src again from its recorded file.
func (m *Manager) reload(src source) error {
	var err error
	switch src.kind {
	case kindTexture:
		_, err = m.LoadTexture(src.name, src.path)
	case kindFont:
		_, err = m.LoadFont(src.name, src.path)
	case kindShader:
		_, err = m.LoadShader(src.name, src.path)
	case kindAtlas:
		_, err = m.LoadAtlas(src.name, src.path)
	case kindSound:
		_, err = m.LoadSound(src.name, src.path)
	case kindMusic:
		_, err = m.LoadMusic(src.name, src.path)
	}
	return err
}

// Close stops the watcher and releases open music streams.
func (m *Manager) Close() error {
	var errs []error
	if err := m.StopWatching(); err != nil {
		errs = append(errs, err)
	}
	for _, mus := range m.music {
		if err := mus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
