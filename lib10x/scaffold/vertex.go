package scaffold

import (
	"github.com/10x-systems/go10x/go10x"
)

// Vertex is a scaffold-graph vertex: either a single graph edge or a whole
// bidirectional path.  Both variants are comparable values, so vertices can
// key maps directly.
type Vertex interface {

	// Conjugate resolves the reverse-complement vertex through the graph
	// involution or the path's conjugate twin.
	Conjugate(g go10x.Graph) Vertex

	// Path returns the underlying path for path vertices and false for
	// edge vertices.
	Path() (*BidirectionalPath, bool)
}

// EdgeVertex wraps a single oriented edge.
type EdgeVertex struct {
	Edge go10x.EdgeID
}

func (v EdgeVertex) Conjugate(g go10x.Graph) Vertex {
	return EdgeVertex{Edge: g.Conjugate(v.Edge)}
}

func (v EdgeVertex) Path() (*BidirectionalPath, bool) {
	return nil, false
}

// PathVertex wraps a bidirectional path.  Identity follows the path pointer,
// so the same path always yields the same vertex.
type PathVertex struct {
	P *BidirectionalPath
}

func (v PathVertex) Conjugate(go10x.Graph) Vertex {
	return PathVertex{P: v.P.Conjugate()}
}

func (v PathVertex) Path() (*BidirectionalPath, bool) {
	return v.P, true
}

// ScaffoldEdge is one univocal connection between two scaffold vertices,
// with the gap length to insert between them.
type ScaffoldEdge struct {
	Start  Vertex
	End    Vertex
	Length int
}
