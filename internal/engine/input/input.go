// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/fdf-viewer/internal/engine/camera"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Button uint8
}

// Input collects the events of one frame and tracks held keys and buttons.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true if the window should close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			code := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				i.held[code] = true
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: code})
				}
			} else if e.Type == sdl.KEYUP {
				delete(i.held, code)
				i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
				i.buttons[e.Button] = true
			} else {
				ev.Type = EventMouseUp
				delete(i.buttons, e.Button)
			}
			i.events = append(i.events, ev)
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown checks if a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonDown checks if a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// DragDelta sums the mouse motion of this frame while button is held.
func (i *Input) DragDelta(button uint8) (dx, dy float32) {
	if !i.buttons[button] {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += float32(e.RelX)
			dy += float32(e.RelY)
		}
	}
	return dx, dy
}

// FlyControls maps the held keys to camera fly controls.
func (i *Input) FlyControls() camera.Controls {
	return camera.Controls{
		Forward:   i.held[sdl.SCANCODE_W],
		Back:      i.held[sdl.SCANCODE_S],
		Left:      i.held[sdl.SCANCODE_A],
		Right:     i.held[sdl.SCANCODE_D],
		Up:        i.held[sdl.SCANCODE_R],
		Down:      i.held[sdl.SCANCODE_F],
		RollLeft:  i.held[sdl.SCANCODE_Q],
		RollRight: i.held[sdl.SCANCODE_E],
		PitchUp:   i.held[sdl.SCANCODE_UP],
		PitchDown: i.held[sdl.SCANCODE_DOWN],
		YawLeft:   i.held[sdl.SCANCODE_LEFT],
		YawRight:  i.held[sdl.SCANCODE_RIGHT],
	}
}
