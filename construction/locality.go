package construction

import "fmt"

// localItem pairs an object id with its hop distance from the focus.
type localItem struct {
	id    string
	depth int
}

// Distances runs a breadth-first walk from focus over the undirected
// dependency graph and returns the hop distance of every object within
// radius. A negative radius means unbounded.
//
// Complexity: O(V + E).
func (s *Snapshot) Distances(focus string, radius int) (map[string]int, error) {
	if _, ok := s.objects[focus]; !ok {
		return nil, fmt.Errorf("Distances %s: %w", focus, ErrUnknownObject)
	}
	dist := map[string]int{focus: 0}
	queue := []localItem{{id: focus}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if radius >= 0 && item.depth == radius {
			continue
		}
		// inputs first, then dependents: both count as one hop
		for _, nbrs := range [][]string{s.inputs[item.id], s.outputs[item.id]} {
			for _, n := range nbrs {
				if _, seen := dist[n]; seen {
					continue
				}
				dist[n] = item.depth + 1
				queue = append(queue, localItem{id: n, depth: item.depth + 1})
			}
		}
	}

	return dist, nil
}
