package camera

// Controls is the held state of the fly keys for one frame.
type Controls struct {
	Forward, Back bool // W, S
	Left, Right   bool // A, D
	Up, Down      bool // R, F
	RollLeft      bool // Q
	RollRight     bool // E

	PitchUp, PitchDown bool // arrow up, arrow down
	YawLeft, YawRight  bool // arrow left, arrow right
}

// Idle reports whether no fly key is held.
func (c Controls) Idle() bool {
	return c == Controls{}
}

// Apply moves and turns cam for a frame lasting dt seconds.
func (c Controls) Apply(cam *FlyCamera, dt float32) {
	if c.Idle() || dt <= 0 {
		return
	}
	cam.Move(axis(c.Forward, c.Back), axis(c.Right, c.Left), axis(c.Up, c.Down), dt)
	cam.Turn(axis(c.PitchUp, c.PitchDown), axis(c.YawLeft, c.YawRight), axis(c.RollLeft, c.RollRight), dt)
}

func axis(pos, neg bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}
