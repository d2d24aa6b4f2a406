package scheme

import "github.com/google/uuid"

// Annotation is a decorative canvas element with no execution semantics.
// The variants are *TextAnnotation and *ArrowAnnotation.
type Annotation interface {
	ID() string
	Graph() *Graph
	Bounds() Rect
	base() *annotationBase
}

type annotationBase struct {
	id    string
	graph *Graph
}

func newAnnotationBase() annotationBase {
	return annotationBase{id: uuid.New().String()}
}

// ID returns the annotation id.
func (a *annotationBase) ID() string { return a.id }

// Graph returns the containing graph, nil when detached.
func (a *annotationBase) Graph() *Graph { return a.graph }

func (a *annotationBase) base() *annotationBase { return a }

func (a *annotationBase) changed(self Annotation, prop string) {
	if a.graph != nil {
		a.graph.emit(Event{Kind: AnnotationChanged, Index: -1, Graph: a.graph, Annotation: self, Property: prop})
	}
}

// SetAnnotationID replaces the id of a detached annotation.
func SetAnnotationID(a Annotation, id string) {
	if b := a.base(); b.graph == nil {
		b.id = id
	}
}

// Content types understood by text annotations.
const (
	ContentPlain    = "text/plain"
	ContentMarkdown = "text/markdown"
)

// Font is the text annotation font.
type Font struct {
	Family string
	Size   int
}

// TextAnnotation is a text box.
type TextAnnotation struct {
	annotationBase
	rect        Rect
	content     string
	contentType string
	font        Font
}

// NewTextAnnotation creates a plain-text annotation.
func NewTextAnnotation(rect Rect, content string) *TextAnnotation {
	return &TextAnnotation{
		annotationBase: newAnnotationBase(),
		rect:           rect.Normalize(),
		content:        content,
		contentType:    ContentPlain,
	}
}

// Rect returns the text box geometry.
func (t *TextAnnotation) Rect() Rect { return t.rect }

// Bounds implements Annotation.
func (t *TextAnnotation) Bounds() Rect { return t.rect }

// SetRect moves or resizes the text box.
func (t *TextAnnotation) SetRect(r Rect) {
	r = r.Normalize()
	if r == t.rect {
		return
	}
	t.rect = r
	t.changed(t, PropGeometry)
}

// Content returns the text.
func (t *TextAnnotation) Content() string { return t.content }

// ContentType returns the MIME type of the text.
func (t *TextAnnotation) ContentType() string { return t.contentType }

// SetContent replaces text and content type.
func (t *TextAnnotation) SetContent(content, contentType string) {
	if contentType == "" {
		contentType = ContentPlain
	}
	if content == t.content && contentType == t.contentType {
		return
	}
	t.content, t.contentType = content, contentType
	t.changed(t, PropContent)
}

// Font returns the font.
func (t *TextAnnotation) Font() Font { return t.font }

// SetFont changes the font.
func (t *TextAnnotation) SetFont(f Font) {
	if f == t.font {
		return
	}
	t.font = f
	t.changed(t, PropFont)
}

// DefaultArrowColor is used when no color is given.
const DefaultArrowColor = "#808080"

// ArrowAnnotation is a straight arrow.
type ArrowAnnotation struct {
	annotationBase
	start, end Point
	color      string
}

// NewArrowAnnotation creates an arrow from start to end.
func NewArrowAnnotation(start, end Point, color string) *ArrowAnnotation {
	if color == "" {
		color = DefaultArrowColor
	}
	return &ArrowAnnotation{annotationBase: newAnnotationBase(), start: start, end: end, color: color}
}

// Line returns the arrow endpoints.
func (a *ArrowAnnotation) Line() (start, end Point) { return a.start, a.end }

// Bounds implements Annotation.
func (a *ArrowAnnotation) Bounds() Rect { return RectFromPoints(a.start, a.end) }

// SetLine moves the arrow endpoints.
func (a *ArrowAnnotation) SetLine(start, end Point) {
	if start == a.start && end == a.end {
		return
	}
	a.start, a.end = start, end
	a.changed(a, PropGeometry)
}

// Color returns the arrow color.
func (a *ArrowAnnotation) Color() string { return a.color }

// SetColor changes the arrow color.
func (a *ArrowAnnotation) SetColor(c string) {
	if c == a.color {
		return
	}
	a.color = c
	a.changed(a, PropColor)
}
