package useragent

import "testing"

func TestNewPool_FallsBackToDefault(t *testing.T) {
	p := NewPool(nil)
	if p.Next() == "" {
		t.Fatal("empty input must fall back to the default pool")
	}
}

func TestNext_RoundRobin(t *testing.T) {
	p := NewPool([]string{"a", "b"})
	got := []string{p.Next(), p.Next(), p.Next()}
	want := []string{"a", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round robin order %v, want %v", got, want)
		}
	}
}

func TestRandom_ReturnsMember(t *testing.T) {
	members := map[string]bool{"a": true, "b": true, "c": true}
	p := NewPool([]string{"a", "b", "c"})
	for i := 0; i < 20; i++ {
		if !members[p.Random()] {
			t.Fatal("Random returned a non-member")
		}
	}
}

func TestNewPool_CopiesInput(t *testing.T) {
	in := []string{"a"}
	p := NewPool(in)
	in[0] = "mutated"
	if p.Next() != "a" {
		t.Fatal("pool must copy its input")
	}
}
