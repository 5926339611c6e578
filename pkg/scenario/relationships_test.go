package scenario

import (
	"slices"
	"testing"
)

func TestAddHostileIsDirected(t *testing.T) {
	r := NewRelationships()
	r.AddHostile("A", "B")

	if !r.IsHostile("A", "B") {
		t.Error("Expected A to regard B as hostile")
	}
	if r.IsHostile("B", "A") {
		t.Error("Expected B to be unaffected by A's hostility")
	}
}

func TestHostileAndAllyAreExclusivePerDirection(t *testing.T) {
	r := NewRelationships()
	r.AddAlly("A", "B")
	r.AddAlly("B", "A")

	r.AddHostile("A", "B")

	if r.IsAlly("A", "B") {
		t.Error("Expected hostile (A, B) to remove ally (A, B)")
	}
	if !r.IsAlly("B", "A") {
		t.Error("Expected ally (B, A) to survive")
	}

	r.AddAlly("A", "B")
	if r.IsHostile("A", "B") {
		t.Error("Expected ally (A, B) to remove hostile (A, B)")
	}
}

func TestAddHostileIgnoresDuplicates(t *testing.T) {
	r := NewRelationships()
	r.AddHostile("A", "B")
	r.AddHostile("A", "B")

	if got := r.GetHostiles("A"); len(got) != 1 {
		t.Errorf("Expected one hostile entry, got %v", got)
	}
}

func TestUpdateRelationshipReplacesLists(t *testing.T) {
	r := NewRelationships()
	r.AddHostile("A", "B")
	r.AddAlly("A", "C")

	r.UpdateRelationship("A", []string{"D"}, []string{"E", "F"})

	if !slices.Equal(r.GetHostiles("A"), []string{"D"}) {
		t.Errorf("Unexpected hostiles: %v", r.GetHostiles("A"))
	}
	if !slices.Equal(r.GetAllies("A"), []string{"E", "F"}) {
		t.Errorf("Unexpected allies: %v", r.GetAllies("A"))
	}
}

func TestDeleteSidePurgesEverywhere(t *testing.T) {
	r := NewRelationships()
	r.AddHostile("A", "B")
	r.AddHostile("B", "A")
	r.AddAlly("C", "B")
	r.AddHostile("C", "A")

	r.DeleteSide("B")

	if r.IsHostile("A", "B") || r.IsAlly("C", "B") {
		t.Error("Expected B to be purged from other sides")
	}
	if _, ok := r.Hostiles["B"]; ok {
		t.Error("Expected B's own hostile entry to be removed")
	}
	if !r.IsHostile("C", "A") {
		t.Error("Expected unrelated entries to survive")
	}
}

func TestZeroValueRelationships(t *testing.T) {
	var r Relationships
	if r.IsHostile("A", "B") {
		t.Error("Expected empty registry to report no hostility")
	}
	r.RemoveAlly("A", "B")
	r.AddHostile("A", "B")
	if !r.IsHostile("A", "B") {
		t.Error("Expected zero value registry to accept entries")
	}
}
