package detrand

import "testing"

func TestApplyStateReproducesFutureDraws(t *testing.T) {
	s := New(42)
	s.Intn(100)
	s.Float64()

	state := s.CaptureState()

	want := make([]int, 5)
	for i := range want {
		want[i] = s.Intn(1000)
	}

	s2 := New(0)
	s2.ApplyState(state)
	for i := 0; i < 5; i++ {
		got := s2.Intn(1000)
		if got != want[i] {
			t.Fatalf("draw %d: got %d, want %d", i, got, want[i])
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	s := New(1)
	for i := 0; i < 100; i++ {
		v := s.IntRange(3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("IntRange(3,6) returned %d, out of bounds", v)
		}
	}
}

func TestIntRangeDegenerate(t *testing.T) {
	s := New(1)
	if got := s.IntRange(5, 5); got != 5 {
		t.Fatalf("IntRange(5,5) = %d, want 5", got)
	}
	if got := s.IntRange(5, 2); got != 5 {
		t.Fatalf("IntRange(5,2) = %d, want lo=5 for degenerate range", got)
	}
}
