package segment

// Function is a function definition extracted from the source file. Methods
// discovered inside classes appear here too, since extraction walks the full
// tree.
type Function struct {
	Name        string
	Params      []string
	Code        string
	StartLine   int // 0-indexed
	EndLine     int // 0-indexed, inclusive
	Explanation string
}

// Class is a class definition. Methods lists the names of function
// definitions that are direct children of the class body, in declaration
// order.
type Class struct {
	Name        string
	Methods     []string
	Code        string
	StartLine   int
	EndLine     int
	Explanation string
}

// Loose is a non-blank source line not attributed to any import, function,
// or class segment.
type Loose struct {
	Code        string
	Line        int
	Explanation string
}

// Analysis groups the segments extracted from one source file. Segments keep
// source order within each collection.
type Analysis struct {
	Imports   []string
	Classes   []*Class
	Functions []*Function
	Loose     []*Loose
}

// NewAnalysis returns an analysis with all four collections empty but
// non-nil. This is also the degraded result for unparseable input.
func NewAnalysis() *Analysis {
	return &Analysis{
		Imports:   []string{},
		Classes:   []*Class{},
		Functions: []*Function{},
		Loose:     []*Loose{},
	}
}

// NumExplainable returns how many segments request an explanation. Imports
// are excluded.
func (a *Analysis) NumExplainable() int {
	return len(a.Classes) + len(a.Functions) + len(a.Loose)
}
