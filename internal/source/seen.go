package source

// SeenSet is a bounded FIFO set used to drop duplicate log lines before
// they reach the estimator. When full, the oldest entry is evicted.
// Owned by the line-acquisition side; not goroutine-safe.
type SeenSet struct {
	cap   int
	set   map[string]struct{}
	order []string
	head  int
}

// DefaultSeenCapacity bounds the de-dup window; enough to cover a
// redraw burst without remembering the whole build.
const DefaultSeenCapacity = 512

// NewSeenSet creates a set that remembers at most capacity lines.
// A capacity <= 0 uses DefaultSeenCapacity.
func NewSeenSet(capacity int) *SeenSet {
	if capacity <= 0 {
		capacity = DefaultSeenCapacity
	}
	return &SeenSet{
		cap:   capacity,
		set:   make(map[string]struct{}, capacity),
		order: make([]string, 0, capacity),
	}
}

// Seen records the line and reports whether it was already present.
func (s *SeenSet) Seen(line string) bool {
	if _, ok := s.set[line]; ok {
		return true
	}
	if len(s.order) < s.cap {
		s.order = append(s.order, line)
	} else {
		delete(s.set, s.order[s.head])
		s.order[s.head] = line
		s.head = (s.head + 1) % s.cap
	}
	s.set[line] = struct{}{}
	return false
}

// Len returns the number of remembered lines.
func (s *SeenSet) Len() int {
	return len(s.set)
}
