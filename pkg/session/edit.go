package session

import "fmt"

// BeginEdit hands the selection to h until EndEdit. Only one handler may
// hold it at a time; a running zoom transition is cancelled.
func (s *Session) BeginEdit(h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrNotPermitted)
	}
	if s.state == StateIdle {
		return ErrNotReady
	}
	if s.handler != nil {
		if s.handler == h {
			return nil
		}
		return fmt.Errorf("%w: another gesture is in progress", ErrNotPermitted)
	}

	s.stopAutoZoom()
	s.handler = h
	s.state = StateEditing
	return nil
}

// EndEdit releases the selection held by h, snaps it to whole pixels when
// pixel-perfect mode is on and plans an auto-zoom.
func (s *Session) EndEdit(h Handler) error {
	if s.state == StateIdle {
		return ErrNotReady
	}
	if s.handler == nil || s.handler != h {
		return fmt.Errorf("%w: handler does not hold the selection", ErrNotPermitted)
	}
	s.handler = nil
	s.state = StateActive

	if s.pixelPerfect {
		s.MakePixelPerfect()
	}
	if s.autoZoom {
		s.StartAutoZoom(false)
	}
	return nil
}

// stopHandler takes the gesture slot away from its holder
func (s *Session) stopHandler() {
	if s.handler == nil {
		return
	}
	h := s.handler
	s.handler = nil
	h.Stop()
}

// Editing reports whether a gesture holds the selection
func (s *Session) Editing() bool { return s.handler != nil }

// Release drops h from the gesture slot without snapping or zooming. It is
// used when a handler is disabled mid-gesture.
func (s *Session) Release(h Handler) {
	if s.handler == nil || s.handler != h {
		return
	}
	s.handler = nil
	if s.state == StateEditing {
		s.state = StateActive
	}
}
