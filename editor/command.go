// Package editor holds the level editor's reversible commands, its tools
// and the background project packager.
package editor

import (
	"go.uber.org/zap"

	"github.com/phanxgames/scion/ecs"
	"github.com/phanxgames/scion/scene"
)

// Document is what the editor edits: the scene registry, its tile layers
// and the tile grid.
type Document struct {
	Registry *ecs.Registry
	Layers   *scene.Layers
	Tilemap  *scene.Tilemap

	log *zap.Logger
}

func NewDocument(r *ecs.Registry, layers *scene.Layers, tm *scene.Tilemap, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	if layers == nil {
		layers = scene.NewLayers()
	}
	return &Document{Registry: r, Layers: layers, Tilemap: tm, log: log}
}

// Command is one reversible edit. Redo applies it, Undo reverts it. The
// set of commands is closed: AddTile, RemoveTile, RectAddTiles,
// RectRemoveTiles, AddLayer, RemoveLayer, RenameLayer and MoveLayer.
type Command interface {
	Undo()
	Redo()
	sealed()
}

// DefaultHistory is the default number of undo steps kept.
const DefaultHistory = 256

// CommandManager keeps the undo and redo stacks. Executing a command
// clears the redo stack.
type CommandManager struct {
	log   *zap.Logger
	undo  []Command
	redo  []Command
	limit int
}

func NewCommandManager(limit int, log *zap.Logger) *CommandManager {
	if log == nil {
		log = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &CommandManager{log: log, limit: limit}
}

// Execute applies c and records it.
func (m *CommandManager) Execute(c Command) {
	c.Redo()
	m.undo = append(m.undo, c)
	if over := len(m.undo) - m.limit; over > 0 {
		clear(m.undo[:over])
		m.undo = m.undo[over:]
	}
	clear(m.redo)
	m.redo = m.redo[:0]
}

// Undo reverts the last command. It reports false when there is nothing
// to undo.
func (m *CommandManager) Undo() bool {
	n := len(m.undo)
	if n == 0 {
		return false
	}
	c := m.undo[n-1]
	m.undo = m.undo[:n-1]
	c.Undo()
	m.redo = append(m.redo, c)
	return true
}

// Redo reapplies the last undone command.
func (m *CommandManager) Redo() bool {
	n := len(m.redo)
	if n == 0 {
		return false
	}
	c := m.redo[n-1]
	m.redo = m.redo[:n-1]
	c.Redo()
	m.undo = append(m.undo, c)
	return true
}

func (m *CommandManager) CanUndo() bool { return len(m.undo) > 0 }
func (m *CommandManager) CanRedo() bool { return len(m.redo) > 0 }

// Clear drops both stacks.
func (m *CommandManager) Clear() {
	m.undo = nil
	m.redo = nil
}
