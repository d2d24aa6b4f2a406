package canvas

import "github.com/zjrosen/orchard/internal/scheme"

// SelectMode controls how a rubber band combines with the current selection.
type SelectMode int

const (
	// SelectReplace selects exactly the covered items.
	SelectReplace SelectMode = iota
	// SelectAdd adds the covered items.
	SelectAdd
	// SelectToggle flips the covered items.
	SelectToggle
)

// ItemAt returns the topmost item under p: nodes, then annotations, then
// links within the hit tolerance. It returns nil over empty canvas.
func (s *Scene) ItemAt(p Point) Item {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].Bounds().Contains(p) {
			return s.nodes[i]
		}
	}
	for i := len(s.annotations) - 1; i >= 0; i-- {
		if s.annotations[i].Bounds().Contains(p) {
			return s.annotations[i]
		}
	}
	for i := len(s.links) - 1; i >= 0; i-- {
		if s.links[i].curve.Distance(p) <= s.layout.LinkHitTolerance {
			return s.links[i]
		}
	}
	return nil
}

// AnchorAt returns the node anchor under p, or nil.
func (s *Scene) AnchorAt(p Point) *Anchor {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if a := s.nodes[i].AnchorAt(p, s.layout.LinkHitTolerance); a != nil {
			return a
		}
	}
	return nil
}

// Select sets the selected flag of one item.
func (s *Scene) Select(it Item, selected bool) {
	if it.setSelected(selected) {
		s.events.Publish(SceneEvent{Kind: SelectionChanged})
	}
}

// SelectOnly clears the selection and selects it.
func (s *Scene) SelectOnly(it Item) {
	changed := false
	for _, other := range s.Items() {
		changed = other.setSelected(other == it) || changed
	}
	if changed {
		s.events.Publish(SceneEvent{Kind: SelectionChanged})
	}
}

// SelectInRect applies a rubber band. Nodes and annotations must intersect
// r; links must lie entirely inside it.
func (s *Scene) SelectInRect(r Rect, mode SelectMode) {
	r = r.Normalize()
	changed := false
	for _, it := range s.Items() {
		var covered bool
		if _, ok := it.(*LinkItem); ok {
			covered = r.ContainsRect(it.Bounds())
		} else {
			covered = r.Intersects(it.Bounds())
		}
		var want bool
		switch mode {
		case SelectReplace:
			want = covered
		case SelectAdd:
			want = it.Selected() || covered
		case SelectToggle:
			want = it.Selected() != covered
		}
		changed = it.setSelected(want) || changed
	}
	if changed {
		s.events.Publish(SceneEvent{Kind: SelectionChanged})
	}
}

// SelectAll selects every item.
func (s *Scene) SelectAll() {
	changed := false
	for _, it := range s.Items() {
		changed = it.setSelected(true) || changed
	}
	if changed {
		s.events.Publish(SceneEvent{Kind: SelectionChanged})
	}
}

// ClearSelection deselects every item.
func (s *Scene) ClearSelection() {
	changed := false
	for _, it := range s.Items() {
		changed = it.setSelected(false) || changed
	}
	if changed {
		s.events.Publish(SceneEvent{Kind: SelectionChanged})
	}
}

// SelectedNodes returns the selected nodes in model order.
func (s *Scene) SelectedNodes() []*scheme.Node {
	var out []*scheme.Node
	for _, it := range s.nodes {
		if it.selected {
			out = append(out, it.node)
		}
	}
	return out
}

// SelectedLinks returns the selected links in model order.
func (s *Scene) SelectedLinks() []*scheme.Link {
	var out []*scheme.Link
	for _, it := range s.links {
		if it.selected {
			out = append(out, it.link)
		}
	}
	return out
}

// SelectedAnnotations returns the selected annotations in model order.
func (s *Scene) SelectedAnnotations() []scheme.Annotation {
	var out []scheme.Annotation
	for _, it := range s.annotations {
		if it.selected {
			out = append(out, it.ann)
		}
	}
	return out
}

// HasSelection reports whether anything is selected.
func (s *Scene) HasSelection() bool {
	for _, it := range s.Items() {
		if it.Selected() {
			return true
		}
	}
	return false
}
