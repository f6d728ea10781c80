package app

// signal is a coalescing wake-up: any number of Notify calls between two
// receives collapse into one.
type signal struct {
	ch chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{}, 1)}
}

// Notify never blocks.
func (s *signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C is the receive side.
func (s *signal) C() <-chan struct{} {
	return s.ch
}
