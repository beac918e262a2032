package construction

import "fmt"

// DFS colors.
const (
	white = iota
	gray
	black
)

// topoSorter walks inputs depth-first, recording a post-order in which
// every object follows its inputs.
type topoSorter struct {
	inputsOf func(string) []string
	state    map[string]int
	order    []string
}

// topoOrder returns roots and their transitive inputs, inputs first. A
// back edge (an object reachable from itself) yields ErrCyclicDefinition.
//
// Complexity: O(V + E) time, O(V) memory.
func topoOrder(roots []string, inputsOf func(string) []string) ([]string, error) {
	s := &topoSorter{
		inputsOf: inputsOf,
		state:    make(map[string]int, len(roots)),
		order:    make([]string, 0, len(roots)),
	}
	for _, r := range roots {
		if s.state[r] == white {
			if err := s.visit(r); err != nil {
				return nil, err
			}
		}
	}

	return s.order, nil
}

func (s *topoSorter) visit(id string) error {
	// 1. Gray means we are still inside id's own expansion.
	if s.state[id] == gray {
		return fmt.Errorf("%s depends on itself: %w", id, ErrCyclicDefinition)
	}
	if s.state[id] == black {
		return nil
	}
	s.state[id] = gray
	// 2. Inputs first.
	for _, in := range s.inputsOf(id) {
		if err := s.visit(in); err != nil {
			return err
		}
	}
	// 3. Done: record in post-order.
	s.state[id] = black
	s.order = append(s.order, id)

	return nil
}
