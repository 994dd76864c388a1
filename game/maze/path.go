package maze

import "github.com/zyedidia/generic/mapset"

// Reachable reports whether to can be reached from from by walking accessible cells.
// limit bounds the number of visited cells; zero means no bound.
func Reachable(from, to *Cell, limit int) bool {
	_, ok := search(from, to, limit)
	return ok || from == to
}

// NextStep returns the first direction of a shortest path from from to to.
// It reports false when to cannot be reached or from == to.
func NextStep(from, to *Cell, limit int) (Direction, bool) {
	return search(from, to, limit)
}

type step struct {
	cell  *Cell
	first Direction
}

// search is a breadth-first walk over accessible cells. It returns the direction of
// the first step on a shortest path to the target.
func search(from, to *Cell, limit int) (Direction, bool) {
	if from == nil || to == nil || from == to || !to.Accessible() {
		return 0, false
	}

	visited := mapset.New[*Cell]()
	visited.Put(from)
	var queue []step
	for _, d := range Directions {
		n := from.Neighbor(d)
		if n == nil || !n.Accessible() || visited.Has(n) {
			continue
		}
		if n == to {
			return d, true
		}
		visited.Put(n)
		queue = append(queue, step{cell: n, first: d})
	}

	for len(queue) > 0 {
		if limit > 0 && visited.Size() >= limit {
			return 0, false
		}
		current := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			n := current.cell.Neighbor(d)
			if n == nil || !n.Accessible() || visited.Has(n) {
				continue
			}
			if n == to {
				return current.first, true
			}
			visited.Put(n)
			queue = append(queue, step{cell: n, first: current.first})
		}
	}
	return 0, false
}
