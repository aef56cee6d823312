package controller

// Latch turns a button which is held down over many ticks into a single press.
type Latch struct {
	held bool
}

// Pressed returns true if v is true and wasn't on the previous call.
func (l *Latch) Pressed(v bool) bool {
	r := v && !l.held
	l.held = v
	return r
}
