package hnsw

import (
	"container/heap"
	"math"
	"sort"

	"github.com/papercomputeco/ragsql/pkg/vector"
)

// candidate is a node position with its cosine distance to the query.
type candidate struct {
	pos  int32
	dist float32
}

// minQueue pops the closest candidate first.
type minQueue []candidate

func (q minQueue) Len() int           { return len(q) }
func (q minQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q minQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *minQueue) Push(v any)        { *q = append(*q, v.(candidate)) }
func (q *minQueue) Pop() any {
	old := *q
	v := old[len(old)-1]
	*q = old[:len(old)-1]
	return v
}

// maxQueue pops the farthest candidate first.
type maxQueue struct{ minQueue }

func (q maxQueue) Less(i, j int) bool { return q.minQueue[i].dist > q.minQueue[j].dist }

func (x *Index) distance(q []float32, pos int32) float32 {
	return 1 - vector.Dot(q, x.vectors[pos])
}

func (x *Index) maxLinks(layer int) int {
	if layer == 0 {
		return 2 * x.cfg.M
	}
	return x.cfg.M
}

func (x *Index) randomLevel() int {
	u := x.rng.Float64()
	for u == 0 {
		u = x.rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * x.levelMult))
}

// greedy walks layer from ep towards q until no neighbor is closer.
func (x *Index) greedy(q []float32, ep int32, layer int) int32 {
	best := ep
	bestDist := x.distance(q, ep)

	for changed := true; changed; {
		changed = false
		for _, n := range x.links[best][layer] {
			if d := x.distance(q, n); d < bestDist {
				best, bestDist = n, d
				changed = true
			}
		}
	}

	return best
}

// searchLayer runs an ef-bounded best-first search on one layer and
// returns the found candidates ordered by ascending distance.
func (x *Index) searchLayer(q []float32, entries []int32, ef int, layer int) []candidate {
	visited := make([]bool, len(x.vectors))

	frontier := &minQueue{}
	found := &maxQueue{}

	for _, ep := range entries {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		c := candidate{pos: ep, dist: x.distance(q, ep)}
		heap.Push(frontier, c)
		heap.Push(found, c)
	}

	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(candidate)
		if found.Len() >= ef && cur.dist > found.minQueue[0].dist {
			break
		}

		if layer >= len(x.links[cur.pos]) {
			continue
		}

		for _, n := range x.links[cur.pos][layer] {
			if visited[n] {
				continue
			}
			visited[n] = true

			d := x.distance(q, n)
			if found.Len() < ef || d < found.minQueue[0].dist {
				c := candidate{pos: n, dist: d}
				heap.Push(frontier, c)
				heap.Push(found, c)
				if found.Len() > ef {
					heap.Pop(found)
				}
			}
		}
	}

	out := make([]candidate, len(found.minQueue))
	copy(out, found.minQueue)
	sortCandidates(out)

	return out
}

func sortCandidates(cs []candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].dist == cs[j].dist {
			return cs[i].pos < cs[j].pos
		}
		return cs[i].dist < cs[j].dist
	})
}

// selectNeighbors applies the diversity heuristic: a candidate is kept only
// if it is closer to the base than to every neighbor kept so far. Remaining
// slots are filled with the closest discarded candidates. cs must be sorted
// by ascending distance.
func (x *Index) selectNeighbors(cs []candidate, m int) []int32 {
	if len(cs) <= m {
		out := make([]int32, len(cs))
		for i, c := range cs {
			out[i] = c.pos
		}
		return out
	}

	selected := make([]int32, 0, m)
	var skipped []int32

	for _, c := range cs {
		if len(selected) == m {
			break
		}

		keep := true
		for _, s := range selected {
			if 1-vector.Dot(x.vectors[c.pos], x.vectors[s]) < c.dist {
				keep = false
				break
			}
		}

		if keep {
			selected = append(selected, c.pos)
		} else {
			skipped = append(skipped, c.pos)
		}
	}

	for _, s := range skipped {
		if len(selected) == m {
			break
		}
		selected = append(selected, s)
	}

	return selected
}

// insert links the node at pos into the graph. Callers hold the write lock
// and have already appended the vector.
func (x *Index) insert(pos int32) {
	level := x.randomLevel()
	x.levels = append(x.levels, level)
	x.links = append(x.links, make([][]int32, level+1))

	if x.entry < 0 {
		x.entry = pos
		x.maxLevel = level
		return
	}

	q := x.vectors[pos]
	ep := x.entry

	for layer := x.maxLevel; layer > level; layer-- {
		ep = x.greedy(q, ep, layer)
	}

	entries := []int32{ep}
	for layer := min(level, x.maxLevel); layer >= 0; layer-- {
		found := x.searchLayer(q, entries, x.cfg.EfConstruction, layer)
		neighbors := x.selectNeighbors(found, x.cfg.M)
		x.links[pos][layer] = neighbors

		for _, n := range neighbors {
			x.link(n, pos, layer)
		}

		entries = entries[:0]
		for _, c := range found {
			entries = append(entries, c.pos)
		}
	}

	if level > x.maxLevel {
		x.entry = pos
		x.maxLevel = level
	}
}

// link adds a back edge from n to pos, shrinking n's list when it overflows.
func (x *Index) link(n, pos int32, layer int) {
	x.links[n][layer] = append(x.links[n][layer], pos)

	limit := x.maxLinks(layer)
	if len(x.links[n][layer]) <= limit {
		return
	}

	base := x.vectors[n]
	cs := make([]candidate, len(x.links[n][layer]))
	for i, p := range x.links[n][layer] {
		cs[i] = candidate{pos: p, dist: x.distance(base, p)}
	}
	sortCandidates(cs)

	x.links[n][layer] = x.selectNeighbors(cs, limit)
}
