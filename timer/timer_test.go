package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAddTimer_FiresOnce(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	m.AddTimer(50*time.Millisecond, 0, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(400 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("Expected one firing, got %d", got)
	}
}

func TestRemoveTimer(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	id := m.AddTimer(200*time.Millisecond, 0, func() {
		atomic.AddInt32(&fired, 1)
	})
	m.RemoveTimer(id)

	time.Sleep(500 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("Removed timer fired %d times", got)
	}
}

func TestAddTimer_Interval(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	m.AddTimer(50*time.Millisecond, 100*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(600 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got < 2 {
		t.Errorf("Expected a repeating timer to fire at least twice, got %d", got)
	}
}
