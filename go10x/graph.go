package go10x

// ConjGraph is a minimal Graph implementation: a flat list of oriented edges
// created in conjugate pairs.  It stands in for a full assembly graph in
// tools and tests; production pipelines supply their own collaborator.
type ConjGraph struct {
	lengths map[EdgeID]int
	conj    map[EdgeID]EdgeID
	edges   []EdgeID
	nextID  uint64
}

func NewConjGraph() *ConjGraph {
	return &ConjGraph{
		lengths: make(map[EdgeID]int),
		conj:    make(map[EdgeID]EdgeID),
		nextID:  1,
	}
}

// AddEdgePair creates an edge of the given length together with its
// reverse-complement twin and returns both.
func (g *ConjGraph) AddEdgePair(length int) (EdgeID, EdgeID) {
	fwd := EdgeID(g.nextID)
	rev := EdgeID(g.nextID + 1)
	g.nextID += 2

	g.lengths[fwd] = length
	g.lengths[rev] = length
	g.conj[fwd] = rev
	g.conj[rev] = fwd
	g.edges = append(g.edges, fwd, rev)
	return fwd, rev
}

func (g *ConjGraph) Length(e EdgeID) int {
	return g.lengths[e]
}

func (g *ConjGraph) Conjugate(e EdgeID) EdgeID {
	return g.conj[e]
}

func (g *ConjGraph) IntID(e EdgeID) uint64 {
	return uint64(e)
}

func (g *ConjGraph) Edges() []EdgeID {
	return g.edges
}
