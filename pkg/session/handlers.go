package session

import (
	"fmt"

	"github.com/menta2k/image-cropper/pkg/constraint"
	"github.com/menta2k/image-cropper/pkg/geometry"
)

const (
	// moveScrollDistance is how close, in viewport units, a dragged
	// selection gets to the viewport edge before the view scrolls.
	moveScrollDistance = 5.0

	// resizeScrollDistance is how close the pointer must be to the
	// viewport edge to scroll while resizing, and
	// resizeSelectionScrollDistance how close the selection edge must be.
	resizeScrollDistance          = 70.0
	resizeSelectionScrollDistance = 50.0
)

// MoveHandler drags the whole selection. Pointer positions are in
// viewport space.
type MoveHandler struct {
	session *Session

	dragging        bool
	initialPosition geometry.Vector2
	initialTouch    geometry.Vector2
}

// NewMoveHandler creates a move gesture for s
func NewMoveHandler(s *Session) *MoveHandler {
	return &MoveHandler{session: s}
}

// Begin starts a drag at pointer. It fails when another gesture holds the
// selection.
func (h *MoveHandler) Begin(pointer geometry.Vector2) error {
	if err := h.session.BeginEdit(h); err != nil {
		return err
	}
	h.dragging = true
	h.initialPosition = h.session.selection.Position
	h.initialTouch = h.session.ViewportToImage(pointer)
	return nil
}

// Drag moves the selection by the distance the pointer travelled since
// Begin.
func (h *MoveHandler) Drag(pointer geometry.Vector2) {
	if !h.dragging {
		return
	}
	delta := h.session.ViewportToImage(pointer).Sub(h.initialTouch)
	h.session.UpdateSelectionPosition(h.initialPosition.Add(delta))
}

// End finishes the drag
func (h *MoveHandler) End() error {
	if !h.dragging {
		return nil
	}
	h.dragging = false
	return h.session.EndEdit(h)
}

// Stop abandons the drag. The session calls it when it takes the gesture
// away.
func (h *MoveHandler) Stop() {
	h.dragging = false
}

// Update scrolls the view while the selection is pushed against a
// viewport edge and carries the selection along.
func (h *MoveHandler) Update(dt float64) {
	if !h.dragging {
		return
	}
	s := h.session
	scale := s.imageScale
	bottomLeft := s.ImageToViewport(s.selection.Position)
	size := s.selection.Size.Mul(scale)
	topRight := bottomLeft.Add(size)
	viewport := s.viewport

	edges := constraint.None
	if bottomLeft.X <= moveScrollDistance {
		edges |= constraint.Left
		bottomLeft.X = 0
	} else if topRight.X >= viewport.X-moveScrollDistance {
		edges |= constraint.Right
		bottomLeft.X = viewport.X - size.X
	}
	if bottomLeft.Y <= moveScrollDistance {
		edges |= constraint.Bottom
		bottomLeft.Y = 0
	} else if topRight.Y >= viewport.Y-moveScrollDistance {
		edges |= constraint.Top
		bottomLeft.Y = viewport.Y - size.Y
	}
	if edges == constraint.None {
		return
	}

	s.ScrollImage(edges, dt)
	s.UpdateSelectionPosition(s.ViewportToImage(bottomLeft))
}

// ResizeHandler drags one edge or one corner of the selection. Pointer
// positions are in viewport space.
type ResizeHandler struct {
	session *Session
	edges   constraint.Direction
	pivot   constraint.Direction

	dragging         bool
	pointer          geometry.Vector2
	initialEdge      geometry.Vector2
	initialTouch     geometry.Vector2
	initialSelection geometry.Rect
}

// NewResizeHandler creates a resize gesture for the given edges of the
// selection: a single edge, or two adjacent edges for a corner.
func NewResizeHandler(s *Session, edges constraint.Direction) (*ResizeHandler, error) {
	horizontal := edges & (constraint.Left | constraint.Right)
	vertical := edges & (constraint.Top | constraint.Bottom)
	if edges == constraint.None ||
		horizontal == constraint.Left|constraint.Right ||
		vertical == constraint.Top|constraint.Bottom ||
		edges&^(constraint.Left|constraint.Right|constraint.Top|constraint.Bottom) != 0 {
		return nil, fmt.Errorf("invalid resize edges %d", int(edges))
	}
	return &ResizeHandler{
		session: s,
		edges:   edges,
		pivot:   edges.Opposite(),
	}, nil
}

// Edges returns the selection edges this handler drags
func (h *ResizeHandler) Edges() constraint.Direction { return h.edges }

// Begin starts a resize at pointer. It fails when another gesture holds
// the selection.
func (h *ResizeHandler) Begin(pointer geometry.Vector2) error {
	if err := h.session.BeginEdit(h); err != nil {
		return err
	}
	sel := h.session.selection

	h.dragging = true
	h.pointer = pointer
	h.initialSelection = sel
	h.initialTouch = h.session.ViewportToImage(pointer)

	if h.edges.Has(constraint.Left) {
		h.initialEdge.X = sel.Position.X
	} else if h.edges.Has(constraint.Right) {
		h.initialEdge.X = sel.Position.X + sel.Size.X
	}
	if h.edges.Has(constraint.Top) {
		h.initialEdge.Y = sel.Position.Y + sel.Size.Y
	} else if h.edges.Has(constraint.Bottom) {
		h.initialEdge.Y = sel.Position.Y
	}
	return nil
}

// Drag moves the dragged edges to follow the pointer. Edges that come
// within the snap threshold of the image border snap onto it.
func (h *ResizeHandler) Drag(pointer geometry.Vector2) {
	if !h.dragging {
		return
	}
	s := h.session
	h.pointer = pointer

	edge := h.initialEdge.Add(s.ViewportToImage(pointer).Sub(h.initialTouch))
	position := h.initialSelection.Position
	size := h.initialSelection.Size
	snap := s.snapThreshold
	bounds := s.orientedSize

	if h.edges.Has(constraint.Left) {
		if edge.X < snap {
			edge.X = 0
		}
		size.X -= edge.X - position.X
		position.X = edge.X
	} else if h.edges.Has(constraint.Right) {
		if edge.X > bounds.X-snap {
			edge.X = bounds.X
		}
		size.X = edge.X - position.X
	}
	if h.edges.Has(constraint.Top) {
		if edge.Y > bounds.Y-snap {
			edge.Y = bounds.Y
		}
		size.Y = edge.Y - position.Y
	} else if h.edges.Has(constraint.Bottom) {
		if edge.Y < snap {
			edge.Y = 0
		}
		size.Y -= edge.Y - position.Y
		position.Y = edge.Y
	}

	// a single edge dragged outward grows the other axis to keep the
	// aspect ratio; everything else shrinks into it
	expand := false
	switch h.edges {
	case constraint.Left, constraint.Right:
		expand = size.X > h.initialSelection.Size.X
	case constraint.Top, constraint.Bottom:
		expand = size.Y > h.initialSelection.Size.Y
	}

	s.UpdateSelection(position, size, h.pivot, !expand)
}

// End finishes the resize
func (h *ResizeHandler) End() error {
	if !h.dragging {
		return nil
	}
	h.dragging = false
	return h.session.EndEdit(h)
}

// Stop abandons the resize. The session calls it when it takes the
// gesture away.
func (h *ResizeHandler) Stop() {
	h.dragging = false
}

// Update scrolls the view while the pointer and the dragged edge are both
// close to a viewport edge, then replays the last drag against the new
// view.
func (h *ResizeHandler) Update(dt float64) {
	if !h.dragging {
		return
	}
	s := h.session
	bottomLeft := s.ImageToViewport(s.selection.Position)
	topRight := bottomLeft.Add(s.selection.Size.Mul(s.imageScale))
	viewport := s.viewport

	edges := constraint.None
	if h.edges&(constraint.Left|constraint.Right) != 0 {
		if h.pointer.X <= resizeScrollDistance && bottomLeft.X <= resizeSelectionScrollDistance {
			edges |= constraint.Left
		} else if h.pointer.X >= viewport.X-resizeScrollDistance && topRight.X >= viewport.X-resizeSelectionScrollDistance {
			edges |= constraint.Right
		}
	}
	if h.edges&(constraint.Top|constraint.Bottom) != 0 {
		if h.pointer.Y <= resizeScrollDistance && bottomLeft.Y <= resizeSelectionScrollDistance {
			edges |= constraint.Bottom
		} else if h.pointer.Y >= viewport.Y-resizeScrollDistance && topRight.Y >= viewport.Y-resizeSelectionScrollDistance {
			edges |= constraint.Top
		}
	}
	if edges == constraint.None {
		return
	}

	s.ScrollImage(edges, dt)
	h.Drag(h.pointer)
}
