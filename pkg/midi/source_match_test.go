package midi

import (
	"testing"

	"github.com/kiro-audio/midi/pkg/ump"
)

func TestSourceMatch(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		m := MatchName("novation.*")
		if !m.Matches(1, "novation launchkey") {
			t.Error("want match")
		}
		if m.Matches(1, "arturia keystep") {
			t.Error("want no match")
		}
	})

	t.Run("by id", func(t *testing.T) {
		m := MatchID(0xabcd)
		if !m.Matches(0xabcd, "whatever") {
			t.Error("want match")
		}
		if m.Matches(0xabce, "whatever") {
			t.Error("want no match")
		}
	})

	t.Run("compile error", func(t *testing.T) {
		if _, err := CompileName("("); err == nil {
			t.Error("want error for bad pattern")
		}
	})
}

func TestSourceMatchesFirstMatchWins(t *testing.T) {
	drums := ump.Filter{}.WithChannels(0, 9)
	all := ump.Filter{}

	s := SourceMatches{}.
		WithSource(MatchName("drum.*"), drums).
		WithSource(MatchName(".*"), all)

	f, ok := s.MatchFilter(1, "drum machine")
	if !ok {
		t.Fatal("want match")
	}
	if f != drums {
		t.Errorf("got=%v want drum filter", f)
	}

	f, ok = s.MatchFilter(2, "synth")
	if !ok {
		t.Fatal("want match")
	}
	if f != all {
		t.Errorf("got=%v want pass-all filter", f)
	}
}

func TestSourceMatchesNoMatch(t *testing.T) {
	s := SourceMatches{}.WithSource(MatchName("drum.*"), ump.Filter{})

	if _, ok := s.MatchFilter(1, "synth"); ok {
		t.Error("want no match")
	}
}

func TestSourceMatchesWithSourceDoesNotAlias(t *testing.T) {
	base := SourceMatches{}.WithSource(MatchName("a.*"), ump.Filter{})

	s1 := base.WithSource(MatchID(1), ump.Filter{})
	s2 := base.WithSource(MatchID(2), ump.Filter{})

	if _, ok := s1.MatchFilter(2, "x"); ok {
		t.Error("s1 sees s2's match")
	}
	if _, ok := s2.MatchFilter(1, "x"); ok {
		t.Error("s2 sees s1's match")
	}
}
