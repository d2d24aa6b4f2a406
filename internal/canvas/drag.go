package canvas

import (
	"github.com/zjrosen/orchard/internal/log"
)

// DragNode moves a node item visually. Attached links re-route. The model is
// untouched until EndNodeDrag.
func (s *Scene) DragNode(it *NodeItem, to Point) {
	if it.pos == to {
		return
	}
	it.moveTo(to)
	s.rerouteNode(it)
	s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
}

// EndNodeDrag reports the final position to the committer. Without a
// committer, or when the item did not move, the item snaps back to the model
// position.
func (s *Scene) EndNodeDrag(it *NodeItem) {
	from, to := it.node.Position(), it.pos
	if from == to {
		return
	}
	if s.committer == nil {
		log.Debug(log.CatCanvas, "drag without committer", "node", it.Title())
		s.DragNode(it, from)
		return
	}
	s.committer.CommitNodeMove(it.node, from, to)
	if it.pos != it.node.Position() {
		// Commit was rejected.
		s.DragNode(it, it.node.Position())
	}
}

// DragAnnotation offsets an annotation item visually.
func (s *Scene) DragAnnotation(it *AnnotationItem, offset Point) {
	if it.offset == offset {
		return
	}
	it.offset = offset
	s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
}

// EndAnnotationDrag reports the drag offset to the committer and clears it.
func (s *Scene) EndAnnotationDrag(it *AnnotationItem) {
	offset := it.offset
	if offset == (Point{}) {
		return
	}
	it.offset = Point{}
	if s.committer != nil {
		s.committer.CommitAnnotationMove(it.ann, offset)
	}
	s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
}

// StartTempLink begins drawing a connection from anchor a.
func (s *Scene) StartTempLink(a *Anchor) *TempLink {
	s.temp = &TempLink{From: a, To: a.Pos}
	s.events.Publish(SceneEvent{Kind: TempLinkChanged})
	return s.temp
}

// UpdateTempLink moves the free end and sets the feedback state.
func (s *Scene) UpdateTempLink(to Point, state LinkState) {
	if s.temp == nil {
		return
	}
	s.temp.To, s.temp.State = to, state
	s.events.Publish(SceneEvent{Kind: TempLinkChanged})
}

// RemoveTempLink discards the temporary link.
func (s *Scene) RemoveTempLink() {
	if s.temp == nil {
		return
	}
	s.temp = nil
	s.events.Publish(SceneEvent{Kind: TempLinkChanged})
}

// TempLink returns the temporary link, or nil.
func (s *Scene) TempLink() *TempLink { return s.temp }
