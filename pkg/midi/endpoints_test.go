package midi

import "testing"

func TestEndpointsSources(t *testing.T) {
	e := NewEndpoints[string, string]()

	e.AddSource(2, "bbb", "port-b")
	e.AddSource(1, "aaa", "port-a")

	sources := e.ConnectedSources()
	if len(sources) != 2 {
		t.Fatalf("len=%d", len(sources))
	}
	if sources[0].Name != "aaa" || sources[1].Name != "bbb" {
		t.Errorf("not sorted by name: %v", sources)
	}

	t.Run("add existing id is a no-op", func(t *testing.T) {
		e.AddSource(1, "other", "port-x")
		if src, _ := e.Source(1); src != "port-a" {
			t.Errorf("source=%q", src)
		}
	})

	t.Run("remove by handle", func(t *testing.T) {
		cs, ok := e.RemoveSource("port-a")
		if !ok {
			t.Fatal("want removed")
		}
		if cs.ID != 1 || cs.Name != "aaa" {
			t.Errorf("removed=%+v", cs)
		}
		if _, ok := e.Source(1); ok {
			t.Error("source still connected")
		}
	})

	t.Run("disconnected id is promoted on return", func(t *testing.T) {
		e.AddSource(1, "aaa", "port-a2")
		if src, ok := e.Source(1); !ok || src != "port-a2" {
			t.Errorf("source=%q ok=%v", src, ok)
		}
	})
}

func TestEndpointsDestinations(t *testing.T) {
	e := NewEndpoints[string, string]()

	e.AddDestination(10, "zzz", "out-z")
	e.AddDestination(11, "mmm", "out-m")

	dests := e.ConnectedDestinations()
	if len(dests) != 2 {
		t.Fatalf("len=%d", len(dests))
	}
	if dests[0].Name != "mmm" || dests[1].Name != "zzz" {
		t.Errorf("not sorted by name: %v", dests)
	}

	if _, ok := e.RemoveDestination("out-z"); !ok {
		t.Fatal("want removed")
	}
	if got := e.ConnectedDestinations(); len(got) != 1 {
		t.Errorf("len=%d", len(got))
	}
}

func TestEndpointsRemoveByID(t *testing.T) {
	e := NewEndpoints[int, int]()
	e.AddSource(5, "src", 50)

	cs, ok := e.RemoveSourceID(5)
	if !ok || cs.Source != 50 {
		t.Errorf("cs=%+v ok=%v", cs, ok)
	}
	if _, ok := e.RemoveSourceID(5); ok {
		t.Error("second remove succeeded")
	}
}
