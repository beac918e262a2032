package aggregate

// unionFind is a disjoint-set forest over string keys with path compression
// and union by rank. Keys are added on first use.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string), rank: make(map[string]int)}
}

// find returns the root of u, compressing the path on the way up.
func (s *unionFind) find(u string) string {
	if _, ok := s.parent[u]; !ok {
		s.parent[u] = u
		return u
	}
	for s.parent[u] != u {
		s.parent[u] = s.parent[s.parent[u]]
		u = s.parent[u]
	}

	return u
}

// union merges the sets of u and v and reports whether they were disjoint.
func (s *unionFind) union(u, v string) bool {
	ru, rv := s.find(u), s.find(v)
	if ru == rv {
		return false
	}
	// Attach the shallower tree under the deeper root.
	if s.rank[ru] < s.rank[rv] {
		ru, rv = rv, ru
	}
	s.parent[rv] = ru
	if s.rank[ru] == s.rank[rv] {
		s.rank[ru]++
	}

	return true
}

func (s *unionFind) same(u, v string) bool { return s.find(u) == s.find(v) }

// classes groups every known key by root.
func (s *unionFind) classes() map[string][]string {
	out := make(map[string][]string)
	for k := range s.parent {
		r := s.find(k)
		out[r] = append(out[r], k)
	}

	return out
}
