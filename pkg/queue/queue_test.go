package queue

import (
	"errors"
	"testing"
	"time"
)

func TestRingOverwritesOldest(t *testing.T) {
	t.Run("size=1", func(t *testing.T) {
		r := NewRing[int](1)
		r.Add(1)
		r.Add(2)
		r.Add(3)
		r.CloseWrite()

		if r.Len() != 1 {
			t.Errorf("len=%d", r.Len())
		}
		got, err := r.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != 3 {
			t.Errorf("got=%d", got)
		}
		if r.Dropped() != 2 {
			t.Errorf("dropped=%d", r.Dropped())
		}
	})

	t.Run("size=2", func(t *testing.T) {
		r := NewRing[int](2)
		r.Add(1)
		r.Add(2)
		r.Add(3)
		r.CloseWrite()

		var got []int
		for v := range r.All() {
			got = append(got, v)
		}
		if len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Errorf("got=%v", got)
		}
	})

	t.Run("size=3 no drop", func(t *testing.T) {
		r := NewRing[int](3)
		r.Add(1)
		r.Add(2)
		r.Add(3)
		r.CloseWrite()

		var got []int
		for v := range r.All() {
			got = append(got, v)
		}
		if len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Errorf("got=%v", got)
		}
		if r.Dropped() != 0 {
			t.Errorf("dropped=%d", r.Dropped())
		}
	})
}

func TestRingNextBlocks(t *testing.T) {
	r := NewRing[string](4)

	done := make(chan string, 1)
	go func() {
		v, err := r.Next()
		if err != nil {
			done <- err.Error()
			return
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	r.Add("hello")

	select {
	case got := <-done:
		if got != "hello" {
			t.Errorf("got=%q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("next did not wake up")
	}
}

func TestRingDrainAfterCloseWrite(t *testing.T) {
	r := NewRing[int](4)
	r.Add(1)
	r.Add(2)
	r.CloseWrite()

	if _, err := r.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, ErrDone) {
		t.Errorf("err=%v, want ErrDone", err)
	}

	if err := r.Add(3); !errors.Is(err, ErrDone) {
		t.Errorf("add after close: %v", err)
	}
}

func TestRingCloseWithError(t *testing.T) {
	r := NewRing[int](4)
	r.Add(1)

	wantErr := errors.New("transport gone")
	r.CloseWithError(wantErr)

	if _, err := r.Next(); !errors.Is(err, wantErr) {
		t.Errorf("err=%v, want %v", err, wantErr)
	}
}

func TestRingCloseWakesBlockedNext(t *testing.T) {
	r := NewRing[int](4)

	done := make(chan error, 1)
	go func() {
		_, err := r.Next()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	r.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrDone) {
			t.Errorf("err=%v, want ErrDone", err)
		}
	case <-time.After(time.Second):
		t.Fatal("next did not wake up")
	}
}

func TestRingTryNext(t *testing.T) {
	r := NewRing[int](4)

	if _, ok := r.TryNext(); ok {
		t.Error("try-next on empty queue succeeded")
	}
	r.Add(7)
	got, ok := r.TryNext()
	if !ok || got != 7 {
		t.Errorf("got=%d ok=%v", got, ok)
	}
}
