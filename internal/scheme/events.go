package scheme

// EventKind enumerates change notifications.
type EventKind int

const (
	NodeInserted EventKind = iota
	NodeRemoved
	LinkInserted
	LinkRemoved
	AnnotationInserted
	AnnotationRemoved
	NodeChanged
	LinkChanged
	AnnotationChanged
	SchemeChanged
)

func (k EventKind) String() string {
	switch k {
	case NodeInserted:
		return "node-inserted"
	case NodeRemoved:
		return "node-removed"
	case LinkInserted:
		return "link-inserted"
	case LinkRemoved:
		return "link-removed"
	case AnnotationInserted:
		return "annotation-inserted"
	case AnnotationRemoved:
		return "annotation-removed"
	case NodeChanged:
		return "node-changed"
	case LinkChanged:
		return "link-changed"
	case AnnotationChanged:
		return "annotation-changed"
	case SchemeChanged:
		return "scheme-changed"
	default:
		return "unknown"
	}
}

// Properties named by change events.
const (
	PropTitle       = "title"
	PropPosition    = "position"
	PropProperties  = "properties"
	PropInputs      = "inputs"
	PropOutputs     = "outputs"
	PropEnabled     = "enabled"
	PropGeometry    = "geometry"
	PropContent     = "content"
	PropColor       = "color"
	PropFont        = "font"
	PropDescription = "description"
	PropPresets     = "presets"
	PropEnv         = "env"
)

// Event describes one committed change. Index is the position of the
// inserted or removed element in its container, and -1 for change events.
// Graph is the container the change happened in; it is nil for
// SchemeChanged.
type Event struct {
	Kind       EventKind
	Index      int
	Graph      *Graph
	Node       *Node
	Link       *Link
	Annotation Annotation
	Property   string
}
