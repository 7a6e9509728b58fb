package scaffold

import (
	"github.com/10x-systems/go10x/go10x"
)

// BidirectionalPath is an ordered run of oriented edges with a back-pointer
// to its reverse-complement twin.  Paths are always created in conjugate
// pairs by a PathContainer; mutating one member of a pair leaves the twin to
// be updated by the symmetric processing of the conjugate chain.
type BidirectionalPath struct {
	g     go10x.Graph
	edges []go10x.EdgeID
	gaps  []int
	conj  *BidirectionalPath
}

func (p *BidirectionalPath) Size() int {
	return len(p.edges)
}

func (p *BidirectionalPath) Empty() bool {
	return len(p.edges) == 0
}

func (p *BidirectionalPath) At(i int) go10x.EdgeID {
	return p.edges[i]
}

// GapAt returns the gap preceding edge i.  The gap before the first edge is
// always zero.
func (p *BidirectionalPath) GapAt(i int) int {
	return p.gaps[i]
}

// Length is the total nucleotide span: edge lengths plus interior gaps.
func (p *BidirectionalPath) Length() int {
	total := 0
	for i, e := range p.edges {
		total += p.g.Length(e) + p.gaps[i]
	}
	return total
}

func (p *BidirectionalPath) Conjugate() *BidirectionalPath {
	return p.conj
}

// PushBack appends another path's edges to this one, inserting gap before
// the first appended edge.  The conjugate twin is not touched.
func (p *BidirectionalPath) PushBack(other *BidirectionalPath, gap int) {
	for i, e := range other.edges {
		g := other.gaps[i]
		if i == 0 {
			g = gap
		}
		p.edges = append(p.edges, e)
		p.gaps = append(p.gaps, g)
	}
}

// Clear empties the path.  The conjugate twin is not touched.
func (p *BidirectionalPath) Clear() {
	p.edges = p.edges[:0]
	p.gaps = p.gaps[:0]
}

// PathContainer owns bidirectional paths, always in conjugate pairs.
type PathContainer struct {
	g     go10x.Graph
	paths []*BidirectionalPath
}

func NewPathContainer(g go10x.Graph) *PathContainer {
	return &PathContainer{
		g: g,
	}
}

// CreatePair creates a path over the given edges together with its
// reverse-complement twin (conjugate edges in reverse order) and returns the
// forward member.
func (pc *PathContainer) CreatePair(edges ...go10x.EdgeID) *BidirectionalPath {
	fwd := &BidirectionalPath{
		g:     pc.g,
		edges: append([]go10x.EdgeID{}, edges...),
		gaps:  make([]int, len(edges)),
	}

	rev := &BidirectionalPath{
		g:    pc.g,
		gaps: make([]int, len(edges)),
	}
	for i := len(edges) - 1; i >= 0; i-- {
		rev.edges = append(rev.edges, pc.g.Conjugate(edges[i]))
	}

	fwd.conj = rev
	rev.conj = fwd
	pc.paths = append(pc.paths, fwd, rev)
	return fwd
}

// Paths returns all owned paths, both members of every pair.
func (pc *PathContainer) Paths() []*BidirectionalPath {
	return pc.paths
}

// Vertices returns one PathVertex per owned path.
func (pc *PathContainer) Vertices() []Vertex {
	vertices := make([]Vertex, 0, len(pc.paths))
	for _, p := range pc.paths {
		vertices = append(vertices, PathVertex{P: p})
	}
	return vertices
}
