package source

import (
	"fmt"
	"testing"
)

func TestSeenSet_Dedup(t *testing.T) {
	s := NewSeenSet(4)

	if s.Seen("[1/10] 5s") {
		t.Error("first occurrence reported as seen")
	}
	if !s.Seen("[1/10] 5s") {
		t.Error("second occurrence not reported as seen")
	}
	if s.Seen("[2/10] 7s") {
		t.Error("distinct line reported as seen")
	}
}

func TestSeenSet_EvictsOldestAtCapacity(t *testing.T) {
	s := NewSeenSet(3)
	for i := 0; i < 3; i++ {
		s.Seen(fmt.Sprintf("line-%d", i))
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	// Fourth insert evicts line-0, the oldest.
	s.Seen("line-3")
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3 after eviction", s.Len())
	}
	if s.Seen("line-0") {
		t.Error("evicted line still reported as seen")
	}

	// Re-adding line-0 evicted line-1 next.
	if s.Seen("line-1") {
		t.Error("line-1 should have been evicted")
	}
}

func TestSeenSet_DefaultCapacity(t *testing.T) {
	s := NewSeenSet(0)
	for i := 0; i < DefaultSeenCapacity; i++ {
		s.Seen(fmt.Sprintf("line-%d", i))
	}
	if s.Len() != DefaultSeenCapacity {
		t.Errorf("Len = %d, want %d", s.Len(), DefaultSeenCapacity)
	}
	if !s.Seen(fmt.Sprintf("line-%d", DefaultSeenCapacity-1)) {
		t.Error("most recent line should still be remembered")
	}
}
