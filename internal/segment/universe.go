package segment

import "sort"

// Universe is the working set of not-yet-claimed physical line indices.
// It starts as {0 .. lineCount-1}; extraction removes an index the moment a
// segment claims it, and reconciliation drains whatever is left. Set
// semantics make a double claim a no-op, so no index can be accounted for
// twice.
type Universe struct {
	lines map[int]struct{}
}

// NewUniverse creates a universe covering all line indices of a file with
// lineCount lines.
func NewUniverse(lineCount int) *Universe {
	lines := make(map[int]struct{}, lineCount)
	for i := 0; i < lineCount; i++ {
		lines[i] = struct{}{}
	}
	return &Universe{lines: lines}
}

// Claim removes a line index from the universe. Claiming an index that was
// already claimed, or one outside the file, does nothing.
func (u *Universe) Claim(line int) {
	delete(u.lines, line)
}

// Len returns the number of unclaimed indices.
func (u *Universe) Len() int {
	return len(u.lines)
}

// Remaining returns the unclaimed indices in ascending order.
func (u *Universe) Remaining() []int {
	remaining := make([]int, 0, len(u.lines))
	for line := range u.lines {
		remaining = append(remaining, line)
	}
	sort.Ints(remaining)
	return remaining
}
