package event

import "testing"

func TestAddRunsImmediatelyWhenDue(t *testing.T) {
	s := New()
	ran := false
	s.Add("dev", func(arg int) { ran = true }, 0, 0)
	if !ran {
		t.Fatal("expected immediate callback for ticks <= 0")
	}
	if s.Pending() {
		t.Fatal("scheduler should have nothing pending")
	}
}

func TestAdvanceFiresInOrder(t *testing.T) {
	s := New()
	var order []int
	s.Add("a", func(arg int) { order = append(order, arg) }, 10, 1)
	s.Add("b", func(arg int) { order = append(order, arg) }, 5, 2)
	s.Add("c", func(arg int) { order = append(order, arg) }, 20, 3)

	s.Advance(5) // fires b (5 ticks)
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("order = %v, want [2]", order)
	}

	s.Advance(5) // fires a (10 ticks total)
	if len(order) != 2 || order[1] != 1 {
		t.Fatalf("order = %v, want [2 1]", order)
	}

	s.Advance(10) // fires c (20 ticks total)
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("order = %v, want [2 1 3]", order)
	}
	if s.Pending() {
		t.Fatal("expected nothing left pending")
	}
}

func TestCancelRemovesPendingEvent(t *testing.T) {
	s := New()
	fired := false
	s.Add("dev", func(arg int) { fired = true }, 10, 7)
	s.Cancel("dev", 7)
	s.Advance(100)
	if fired {
		t.Fatal("cancelled event must not fire")
	}
}

func TestCancelPreservesLaterEventsTiming(t *testing.T) {
	s := New()
	var order []int
	s.Add("a", func(arg int) { order = append(order, arg) }, 5, 1)
	s.Add("b", func(arg int) { order = append(order, arg) }, 10, 2) // fires at tick 10
	s.Cancel("a", 1)
	s.Advance(9)
	if len(order) != 0 {
		t.Fatalf("order = %v after 9 ticks, want [] (b is due at tick 10)", order)
	}
	s.Advance(1)
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("order = %v, want [2] (b still fires at its original absolute time)", order)
	}
}
