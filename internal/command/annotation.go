package command

import (
	"fmt"

	"github.com/zjrosen/orchard/internal/scheme"
)

// AddAnnotation inserts a detached annotation into a graph.
type AddAnnotation struct {
	BaseCommand
	graph *scheme.Graph
	ann   scheme.Annotation
	index int
}

// NewAddAnnotation appends a to g.
func NewAddAnnotation(g *scheme.Graph, a scheme.Annotation) *AddAnnotation {
	return &AddAnnotation{BaseCommand: NewBaseCommand(CmdAddAnnotation, "Add annotation"), graph: g, ann: a, index: -1}
}

// Annotation returns the annotation being added.
func (c *AddAnnotation) Annotation() scheme.Annotation { return c.ann }

// Validate implements Command.
func (c *AddAnnotation) Validate() error {
	if c.graph == nil || c.ann == nil {
		return fmt.Errorf("%w: add annotation needs a graph and an annotation", ErrInvalidCommand)
	}
	if c.ann.Graph() != nil {
		return fmt.Errorf("%w: annotation %s", scheme.ErrAlreadyInGraph, c.ann.ID())
	}
	return nil
}

// Apply implements Command.
func (c *AddAnnotation) Apply() error {
	c.index = insertIndex(c.index, len(c.graph.Annotations()))
	return c.graph.InsertAnnotation(c.index, c.ann)
}

// Undo implements Command.
func (c *AddAnnotation) Undo() error { return c.graph.RemoveAnnotation(c.ann) }

// RemoveAnnotation detaches an annotation; undo restores its index.
type RemoveAnnotation struct {
	BaseCommand
	graph *scheme.Graph
	ann   scheme.Annotation
	index int
}

// NewRemoveAnnotation removes a from g.
func NewRemoveAnnotation(g *scheme.Graph, a scheme.Annotation) *RemoveAnnotation {
	return &RemoveAnnotation{BaseCommand: NewBaseCommand(CmdRemoveAnnotation, "Remove annotation"), graph: g, ann: a, index: -1}
}

// Validate implements Command.
func (c *RemoveAnnotation) Validate() error {
	if c.graph == nil || c.ann == nil {
		return fmt.Errorf("%w: remove annotation needs a graph and an annotation", ErrInvalidCommand)
	}
	if c.ann.Graph() != c.graph {
		return fmt.Errorf("%w: annotation %s", scheme.ErrNotInGraph, c.ann.ID())
	}
	return nil
}

// Apply implements Command.
func (c *RemoveAnnotation) Apply() error {
	c.index = c.graph.AnnotationIndex(c.ann)
	return c.graph.RemoveAnnotation(c.ann)
}

// Undo implements Command.
func (c *RemoveAnnotation) Undo() error { return c.graph.InsertAnnotation(c.index, c.ann) }

// Geometry is the user-adjustable shape of an annotation: Rect for text
// boxes, Start and End for arrows.
type Geometry struct {
	Rect       scheme.Rect
	Start, End scheme.Point
}

// GeometryOf returns the current geometry of a.
func GeometryOf(a scheme.Annotation) Geometry {
	switch a := a.(type) {
	case *scheme.TextAnnotation:
		return Geometry{Rect: a.Rect()}
	case *scheme.ArrowAnnotation:
		start, end := a.Line()
		return Geometry{Start: start, End: end}
	}
	return Geometry{}
}

func setGeometry(a scheme.Annotation, g Geometry) {
	switch a := a.(type) {
	case *scheme.TextAnnotation:
		a.SetRect(g.Rect)
	case *scheme.ArrowAnnotation:
		a.SetLine(g.Start, g.End)
	}
}

// SetAnnotationGeometry moves or resizes an annotation.
type SetAnnotationGeometry struct {
	BaseCommand
	ann      scheme.Annotation
	old, new Geometry
}

// NewSetAnnotationGeometry sets the geometry of a to g.
func NewSetAnnotationGeometry(a scheme.Annotation, g Geometry) *SetAnnotationGeometry {
	return NewSetAnnotationGeometryFrom(a, GeometryOf(a), g)
}

// NewSetAnnotationGeometryFrom records a geometry change whose start differs
// from the model, as after a visual drag.
func NewSetAnnotationGeometryFrom(a scheme.Annotation, from, to Geometry) *SetAnnotationGeometry {
	return &SetAnnotationGeometry{
		BaseCommand: NewBaseCommand(CmdSetAnnotationGeometry, "Move annotation"),
		ann:         a,
		old:         from,
		new:         to,
	}
}

// Apply implements Command.
func (c *SetAnnotationGeometry) Apply() error {
	setGeometry(c.ann, c.new)
	return nil
}

// Undo implements Command.
func (c *SetAnnotationGeometry) Undo() error {
	setGeometry(c.ann, c.old)
	return nil
}

// SetTextContent replaces the text of a text annotation.
type SetTextContent struct {
	BaseCommand
	ann              *scheme.TextAnnotation
	oldText, oldType string
	newText, newType string
}

// NewSetTextContent sets the content of a.
func NewSetTextContent(a *scheme.TextAnnotation, content, contentType string) *SetTextContent {
	return &SetTextContent{
		BaseCommand: NewBaseCommand(CmdSetTextContent, "Edit text"),
		ann:         a,
		oldText:     a.Content(),
		oldType:     a.ContentType(),
		newText:     content,
		newType:     contentType,
	}
}

// Apply implements Command.
func (c *SetTextContent) Apply() error {
	c.ann.SetContent(c.newText, c.newType)
	return nil
}

// Undo implements Command.
func (c *SetTextContent) Undo() error {
	c.ann.SetContent(c.oldText, c.oldType)
	return nil
}

// SetArrowColor recolors an arrow annotation.
type SetArrowColor struct {
	BaseCommand
	ann      *scheme.ArrowAnnotation
	old, new string
}

// NewSetArrowColor sets the color of a.
func NewSetArrowColor(a *scheme.ArrowAnnotation, color string) *SetArrowColor {
	return &SetArrowColor{BaseCommand: NewBaseCommand(CmdSetArrowColor, "Change arrow color"), ann: a, old: a.Color(), new: color}
}

// Validate implements Command.
func (c *SetArrowColor) Validate() error {
	if c.new == "" {
		return fmt.Errorf("%w: empty color", ErrInvalidCommand)
	}
	return nil
}

// Apply implements Command.
func (c *SetArrowColor) Apply() error {
	c.ann.SetColor(c.new)
	return nil
}

// Undo implements Command.
func (c *SetArrowColor) Undo() error {
	c.ann.SetColor(c.old)
	return nil
}
