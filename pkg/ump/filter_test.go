package ump

import "testing"

func TestFilterWithout(t *testing.T) {
	t.Run("types", func(t *testing.T) {
		f := Filter{}.WithTypes(TypeChannelVoice1, TypeChannelVoice2).
			WithoutTypes(TypeChannelVoice1)
		if f.Type(TypeChannelVoice1) {
			t.Error("removed type still passes")
		}
		if !f.Type(TypeChannelVoice2) {
			t.Error("remaining type filtered out")
		}
	})

	t.Run("groups", func(t *testing.T) {
		f := Filter{}.WithGroups(1, 2).WithoutGroups(2)
		if f.Group(2) {
			t.Error("removed group still passes")
		}
		if !f.Group(1) {
			t.Error("remaining group filtered out")
		}
	})

	t.Run("channels", func(t *testing.T) {
		f := Filter{}.WithChannels(1, 2, 3).WithoutChannels(1, 3)
		if f.Channel(1, 3) {
			t.Error("removed channel still passes")
		}
		if !f.Channel(1, 2) {
			t.Error("remaining channel filtered out")
		}
	})

	t.Run("emptied mask passes all again", func(t *testing.T) {
		f := Filter{}.WithGroups(1).WithoutGroups(1)
		for g := uint8(0); g < 16; g++ {
			if !f.Group(g) {
				t.Fatalf("group %d filtered by empty mask", g)
			}
		}
	})

	t.Run("removing an absent bit is a no-op", func(t *testing.T) {
		f := Filter{}.WithGroups(1).WithoutGroups(5)
		if !f.Group(1) || f.Group(2) {
			t.Errorf("filter changed: %+v", f)
		}
	})
}
