package app

import "testing"

func TestSignalCoalesces(t *testing.T) {
	s := newSignal()
	for i := 0; i < 5; i++ {
		s.Notify()
	}

	select {
	case <-s.C():
	default:
		t.Fatal("expected one pending wake-up")
	}
	select {
	case <-s.C():
		t.Fatal("notifications were not coalesced")
	default:
	}
}
