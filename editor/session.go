package editor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/input"
	"github.com/phanxgames/scion/render"
)

// Tool selects what the left mouse button does.
type Tool int

const (
	ToolTile Tool = iota
	ToolRect
	ToolTranslate
	ToolScale
	ToolRotate
)

var toolNames = [...]string{"tile", "rect", "translate", "scale", "rotate"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

var toolKeys = map[ebiten.Key]Tool{
	ebiten.Key1: ToolTile,
	ebiten.Key2: ToolRect,
	ebiten.Key3: ToolTranslate,
	ebiten.Key4: ToolScale,
	ebiten.Key5: ToolRotate,
}

// Picker resolves a screen pixel to the entity drawn there, as
// system.PickingSystem.PickAt does.
type Picker func(x, y int) (ecs.Entity, bool)

// Selection colors.
var (
	SelectionColor = scion.Color{R: 1, G: 0.8, B: 0, A: 1}
	RectFillColor  = scion.Color{R: 0.3, G: 0.6, B: 1, A: 1}
)

// Session drives the editor tools from polled input: keys 1-5 pick a
// tool, Ctrl+Z undoes, Ctrl+Y or Ctrl+Shift+Z redoes, E toggles erasing,
// and the left mouse button applies the current tool.
type Session struct {
	log *zap.Logger

	Doc       *Document
	Commands  *CommandManager
	Tile      *TileTool
	Rect      *RectFillTool
	Translate TranslateGizmo
	Scale     ScaleGizmo
	Rotate    RotateGizmo

	Tool     Tool
	Picker   Picker
	Selected ecs.Entity
}

func NewSession(doc *Document, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	cmds := NewCommandManager(DefaultHistory, log)
	return &Session{
		log:      log,
		Doc:      doc,
		Commands: cmds,
		Tile:     NewTileTool(doc, cmds),
		Rect:     NewRectFillTool(doc, cmds),
		Selected: ecs.Null,
	}
}

// SetLayer points the tile tools at a layer.
func (s *Session) SetLayer(layer int) {
	s.Tile.Layer = layer
	s.Rect.Layer = layer
}

// SetTileID selects the tile the tile tools paint.
func (s *Session) SetTileID(id int) {
	s.Tile.TileID = id
	s.Rect.TileID = id
}

// Update applies one frame of input.
func (s *Session) Update(in *input.Manager, cam *camera.Camera2D) {
	kb := &in.Keyboard
	ctrl := kb.IsKeyPressed(ebiten.KeyControlLeft) || kb.IsKeyPressed(ebiten.KeyControlRight)
	shift := kb.IsKeyPressed(ebiten.KeyShiftLeft) || kb.IsKeyPressed(ebiten.KeyShiftRight)
	switch {
	case ctrl && kb.IsKeyJustPressed(ebiten.KeyZ) && !shift:
		s.Commands.Undo()
	case ctrl && (kb.IsKeyJustPressed(ebiten.KeyY) || kb.IsKeyJustPressed(ebiten.KeyZ)):
		s.Commands.Redo()
	}
	for key, tool := range toolKeys {
		if kb.IsKeyJustPressed(key) && s.Tool != tool {
			s.switchTool(tool)
		}
	}
	if kb.IsKeyJustPressed(ebiten.KeyE) {
		s.Tile.Erase = !s.Tile.Erase
		s.Rect.Erase = s.Tile.Erase
	}

	m := &in.Mouse
	world := cam.ScreenCoordsToWorld(m.Position())
	switch s.Tool {
	case ToolTile:
		if m.IsPressed(input.MouseLeft) {
			s.Tile.Apply(world)
		}
	case ToolRect:
		switch {
		case m.IsJustPressed(input.MouseLeft):
			s.Rect.Begin(world)
		case m.IsJustReleased(input.MouseLeft):
			s.Rect.End(world)
		case m.IsPressed(input.MouseLeft):
			s.Rect.Drag(world)
		}
	case ToolTranslate:
		s.gizmo(m, world, s.Translate.Begin, s.Translate.Drag, &s.Translate.drag)
	case ToolScale:
		s.gizmo(m, world, s.Scale.Begin, s.Scale.Drag, &s.Scale.drag)
	case ToolRotate:
		s.gizmo(m, world, s.Rotate.Begin, s.Rotate.Drag, &s.Rotate.drag)
	}
}

func (s *Session) switchTool(t Tool) {
	s.Rect.Cancel()
	s.Translate.End()
	s.Scale.End()
	s.Rotate.End()
	s.Tool = t
	s.log.Debug("editor tool", zap.Stringer("tool", t))
}

func (s *Session) gizmo(m *input.Mouse, world scion.Vec2,
	begin func(*ecs.Registry, ecs.Entity, scion.Vec2) bool,
	dragTo func(*ecs.Registry, scion.Vec2), d *drag) {
	r := s.Doc.Registry
	switch {
	case m.IsJustPressed(input.MouseLeft):
		s.pick(m)
		if s.Selected != ecs.Null {
			begin(r, s.Selected, world)
		}
	case m.IsPressed(input.MouseLeft):
		dragTo(r, world)
	case m.IsJustReleased(input.MouseLeft):
		d.End()
	}
}

func (s *Session) pick(m *input.Mouse) {
	s.Selected = ecs.Null
	if s.Picker == nil {
		return
	}
	if e, ok := s.Picker(int(m.X), int(m.Y)); ok {
		s.Selected = e
	}
}

// Draw queues the rect-fill selection and the outline of the selected
// entity.
func (s *Session) Draw(rend *render.Renderer) {
	if sel, ok := s.Rect.Selection(); ok {
		rend.DrawRect(render.Rect{Bounds: sel, Thickness: 1, Color: RectFillColor})
	}
	r := s.Doc.Registry
	if s.Selected == ecs.Null || !r.Valid(s.Selected) {
		return
	}
	t, ok := ecs.TryGet[component.Transform](r, s.Selected)
	if !ok {
		return
	}
	w, h := 1.0, 1.0
	if sp, ok := ecs.TryGet[component.Sprite](r, s.Selected); ok {
		w, h = sp.Width*t.Scale.X, sp.Height*t.Scale.Y
	}
	rend.DrawRect(render.Rect{
		Bounds:    scion.Rect{X: t.Position.X, Y: t.Position.Y, Width: w, Height: h},
		Thickness: 1,
		Color:     SelectionColor,
	})
}
