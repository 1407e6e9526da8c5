package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dshills/eventbridge/internal/app"
	"github.com/dshills/eventbridge/internal/config"
	"github.com/dshills/eventbridge/internal/doc"
	"github.com/dshills/eventbridge/internal/history"
)

// Action operations.
const (
	OpEdit     = "edit"
	OpUndo     = "undo"
	OpRedo     = "redo"
	OpRename   = "rename"
	OpClose    = "close"
	OpActivate = "activate"
	OpFgColor  = "fgcolor"
	OpBgColor  = "bgcolor"
	OpOpen     = "open"
)

// ErrInvalidAction indicates a malformed action.
var ErrInvalidAction = errors.New("invalid action")

// Action is one step of an action file. Doc 0 means the active document.
type Action struct {
	Op    string       `yaml:"op"`
	Doc   doc.ObjectID `yaml:"doc,omitempty"`
	Value string       `yaml:"value,omitempty"`
}

func (a Action) String() string {
	s := a.Op
	if a.Doc != doc.NullID {
		s += " doc=" + strconv.FormatUint(uint64(a.Doc), 10)
	}
	if a.Value != "" {
		s += " value=" + strconv.Quote(a.Value)
	}
	return s
}

// LoadActions reads a YAML list of actions.
func LoadActions(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return ParseActions(data)
}

// ParseActions decodes and validates a YAML list of actions.
func ParseActions(data []byte) ([]Action, error) {
	var actions []Action
	if err := yaml.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	for i, a := range actions {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
	}
	return actions, nil
}

func (a Action) validate() error {
	switch a.Op {
	case OpEdit, OpUndo, OpRedo, OpClose, OpActivate, OpOpen:
		return nil
	case OpRename, OpFgColor, OpBgColor:
		if a.Value == "" {
			return fmt.Errorf("%w: %s needs a value", ErrInvalidAction, a.Op)
		}
		return nil
	case "":
		return fmt.Errorf("%w: missing op", ErrInvalidAction)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidAction, a.Op)
	}
}

// Replay applies actions in order and stops at the first failure.
// Undo and redo with nothing to step over are not failures.
func Replay(a *app.Application, actions []Action) error {
	for i, act := range actions {
		if err := apply(a, act); err != nil {
			return fmt.Errorf("action %d (%s): %w", i+1, act, err)
		}
	}
	return nil
}

func apply(a *app.Application, act Action) error {
	switch act.Op {
	case OpOpen:
		_, err := a.OpenDocument(act.Value)
		return err
	case OpFgColor, OpBgColor:
		c, err := config.ParseColor(act.Value)
		if err != nil {
			return err
		}
		if act.Op == OpFgColor {
			a.Preferences().SetFgColor(c, "actions")
		} else {
			a.Preferences().SetBgColor(c, "actions")
		}
		return nil
	}

	d, err := target(a, act.Doc)
	if err != nil {
		return err
	}

	switch act.Op {
	case OpEdit:
		label := act.Value
		if label == "" {
			label = OpEdit
		}
		d.UndoHistory().Add(label)
	case OpUndo:
		if err := d.UndoHistory().Undo(); err != nil && !errors.Is(err, history.ErrNothingToUndo) {
			return err
		}
	case OpRedo:
		if err := d.UndoHistory().Redo(); err != nil && !errors.Is(err, history.ErrNothingToRedo) {
			return err
		}
	case OpRename:
		d.SetFilename(act.Value)
	case OpClose:
		return a.CloseDocument(d.ID())
	case OpActivate:
		a.Context().SetActiveSite(app.Site{Document: d.ID()})
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidAction, act.Op)
	}
	return nil
}

// target resolves id, falling back to the active document for 0.
func target(a *app.Application, id doc.ObjectID) (*doc.Document, error) {
	if id == doc.NullID {
		id = a.Context().ActiveSite().Document
		if id == doc.NullID {
			return nil, fmt.Errorf("%w: no active document", app.ErrDocumentNotFound)
		}
	}
	return a.Document(id)
}
