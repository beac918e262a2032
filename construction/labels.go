package construction

import "strconv"

// nextLabel returns the first free label of the sequence
// first..first+25, then the same letters suffixed 1, 2, ...
func nextLabel(first byte, taken func(string) bool) string {
	for round := 0; ; round++ {
		for c := byte(0); c < 26; c++ {
			l := string(rune(first + c))
			if round > 0 {
				l += strconv.Itoa(round)
			}
			if !taken(l) {
				return l
			}
		}
	}
}
