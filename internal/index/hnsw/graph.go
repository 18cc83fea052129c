package hnsw

import (
	"container/heap"
	"math"
	"sort"
)

// scored pairs an internal node id with its distance to the current query.
type scored struct {
	id   uint32
	dist float64
}

// minQueue pops the closest node first.
type minQueue []scored

func (q minQueue) Len() int           { return len(q) }
func (q minQueue) Less(a, b int) bool { return q[a].dist < q[b].dist }
func (q minQueue) Swap(a, b int)      { q[a], q[b] = q[b], q[a] }
func (q *minQueue) Push(x any)        { *q = append(*q, x.(scored)) }

func (q *minQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]
	return v
}

// maxQueue pops the farthest node first; used as the bounded result set.
type maxQueue []scored

func (q maxQueue) Len() int           { return len(q) }
func (q maxQueue) Less(a, b int) bool { return q[a].dist > q[b].dist }
func (q maxQueue) Swap(a, b int)      { q[a], q[b] = q[b], q[a] }
func (q *maxQueue) Push(x any)        { *q = append(*q, x.(scored)) }

func (q *maxQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]
	return v
}

// distance is the cosine distance 1 - dot. Both vectors are unit norm, so
// the result lies in [0, 2] and lower means more similar.
func distance(a, b []float32) float64 {
	var dot float64
	for idx := range a {
		dot += float64(a[idx]) * float64(b[idx])
	}
	return 1.0 - dot
}

// randomLevel draws a node's top layer from the standard exponential decay:
// floor(-ln(U) * mL) with mL = 1/ln(M).
func (i *Index) randomLevel() int {
	u := i.rng.Float64()
	for u == 0 {
		u = i.rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * i.levelMult))
}

// maxDegree is the adjacency cap for a layer: 2M on layer 0, M above.
func (i *Index) maxDegree(layer int) int {
	if layer == 0 {
		return 2 * i.cfg.M
	}
	return i.cfg.M
}

// insert wires a new node into the graph. Caller holds the write lock and
// has already validated the vector.
func (i *Index) insert(chunkID string, vector []float32) {
	level := i.randomLevel()
	n := &node{
		chunkID:   chunkID,
		vector:    vector,
		neighbors: make([][]uint32, level+1),
	}
	id := uint32(len(i.nodes))
	i.nodes = append(i.nodes, n)
	i.byID[chunkID] = id

	if i.maxLevel < 0 {
		// First node becomes the entry point.
		i.entry = id
		i.maxLevel = level
		return
	}

	// Descend from the global entry point through layers above the new
	// node's level, greedily tracking the closest node.
	ep := i.entry
	for layer := i.maxLevel; layer > level; layer-- {
		ep = i.greedyClosest(vector, ep, layer)
	}

	// From the new node's top layer down, connect to the closest
	// efConstruction candidates found on each layer.
	top := level
	if top > i.maxLevel {
		top = i.maxLevel
	}
	for layer := top; layer >= 0; layer-- {
		candidates := i.searchLayer(vector, ep, i.cfg.EfConstruction, layer)

		m := i.maxDegree(layer)
		count := len(candidates)
		if count > m {
			count = m
		}
		links := make([]uint32, count)
		for idx := 0; idx < count; idx++ {
			links[idx] = candidates[idx].id
		}
		n.neighbors[layer] = links

		for _, nb := range links {
			i.linkBack(nb, id, layer)
		}
		if len(candidates) > 0 {
			ep = candidates[0].id
		}
	}

	if level > i.maxLevel {
		i.maxLevel = level
		i.entry = id
	}
}

// linkBack adds newID to nb's adjacency on the given layer, pruning back to
// the layer's degree cap by keeping the closest neighbours.
func (i *Index) linkBack(nb, newID uint32, layer int) {
	node := i.nodes[nb]
	node.neighbors[layer] = append(node.neighbors[layer], newID)

	m := i.maxDegree(layer)
	if len(node.neighbors[layer]) <= m {
		return
	}

	links := node.neighbors[layer]
	byDist := make([]scored, len(links))
	for idx, l := range links {
		byDist[idx] = scored{id: l, dist: distance(node.vector, i.nodes[l].vector)}
	}
	sort.Slice(byDist, func(a, b int) bool { return byDist[a].dist < byDist[b].dist })

	pruned := make([]uint32, m)
	for idx := 0; idx < m; idx++ {
		pruned[idx] = byDist[idx].id
	}
	node.neighbors[layer] = pruned
}

// greedyClosest walks a layer from ep, moving to any closer neighbour until
// no neighbour improves on the current node.
func (i *Index) greedyClosest(query []float32, ep uint32, layer int) uint32 {
	current := ep
	best := distance(query, i.nodes[current].vector)
	for {
		improved := false
		for _, nb := range i.neighborsAt(current, layer) {
			if d := distance(query, i.nodes[nb].vector); d < best {
				best = d
				current = nb
				improved = true
			}
		}
		if !improved {
			return current
		}
	}
}

// searchLayer runs the breadth-ef candidate scan of one layer, returning up
// to ef nodes sorted by ascending distance.
func (i *Index) searchLayer(query []float32, ep uint32, ef int, layer int) []scored {
	visited := make(map[uint32]struct{}, ef*4)
	visited[ep] = struct{}{}

	start := scored{id: ep, dist: distance(query, i.nodes[ep].vector)}
	candidates := minQueue{start}
	results := maxQueue{start}

	for candidates.Len() > 0 {
		c := heap.Pop(&candidates).(scored)
		if c.dist > results[0].dist && results.Len() >= ef {
			break
		}
		for _, nb := range i.neighborsAt(c.id, layer) {
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}
			d := distance(query, i.nodes[nb].vector)
			if results.Len() < ef || d < results[0].dist {
				heap.Push(&candidates, scored{id: nb, dist: d})
				heap.Push(&results, scored{id: nb, dist: d})
				if results.Len() > ef {
					heap.Pop(&results)
				}
			}
		}
	}

	out := make([]scored, results.Len())
	copy(out, results)
	sort.Slice(out, func(a, b int) bool { return out[a].dist < out[b].dist })
	return out
}

// neighborsAt returns a node's adjacency on a layer, or nil when the node
// does not reach that layer.
func (i *Index) neighborsAt(id uint32, layer int) []uint32 {
	n := i.nodes[id]
	if layer >= len(n.neighbors) {
		return nil
	}
	return n.neighbors[layer]
}
