package segment

import "strings"

// Reconcile drains the line indices left unclaimed after extraction and
// turns them into loose segments in ascending line order. Lines that are
// blank after trimming are dropped. This is where the unclaimed trailing
// lines of multi-line definitions show up again as fragment-only loose
// segments; see Extract.
func Reconcile(u *Universe, lines []string) []*Loose {
	loose := []*Loose{}
	for _, line := range u.Remaining() {
		if line >= len(lines) {
			continue
		}
		code := strings.TrimSpace(lines[line])
		if code == "" {
			continue
		}
		loose = append(loose, &Loose{Code: code, Line: line})
	}
	return loose
}
