package syncx

import "testing"

func TestMap(t *testing.T) {
	var m Map[string, int]

	if _, ok := m.Load("missing"); ok {
		t.Fatalf("expected missing key not to be found")
	}

	m.Store("a", 1)

	if v, loaded := m.LoadOrStore("a", 2); !loaded || v != 1 {
		t.Fatalf("LoadOrStore: expected (1, true), got (%d, %v)", v, loaded)
	}

	if v, loaded := m.LoadOrStore("b", 2); loaded || v != 2 {
		t.Fatalf("LoadOrStore: expected (2, false), got (%d, %v)", v, loaded)
	}

	m.Delete("a")

	count := 0
	m.Range(func(key string, value int) bool {
		count++
		return true
	})

	if e, g := 1, count; e != g {
		t.Fatalf("Range: expected %d entries, got %d", e, g)
	}
}
