package go10x

// EdgeID is an opaque handle for an oriented edge of the assembly graph.
//
// Every edge has a reverse-complement twin obtained through Graph.Conjugate.
// EdgeIDs are issued by the graph collaborator and carry no meaning beyond
// identity; use Graph.IntID for a stable numeric form.
type EdgeID uint64

// BarcodeID is the interned form of a barcode string.
//
// Ids are dense in [0, encoder.Size()) and assigned in insertion order, so
// they double as serialization ids.
type BarcodeID uint64

// Range is a half-open interval [Start, End) of positions along an edge,
// measured in nucleotides from the edge's 5' end.
type Range struct {
	Start int
	End   int
}

// Graph is the assembly graph collaborator consumed by the barcode index.
//
// Conjugate is an involution: Conjugate(Conjugate(e)) == e and
// Conjugate(e) != e for every edge.
type Graph interface {

	// Length returns the nucleotide length of the given edge.
	Length(e EdgeID) int

	// Conjugate returns the reverse-complement twin of the given edge.
	Conjugate(e EdgeID) EdgeID

	// IntID returns a stable numeric id, used only for serialization.
	IntID(e EdgeID) uint64

	// Edges returns all oriented edges (both orientations of each twin pair).
	Edges() []EdgeID
}

// Alignment is one unit of barcode evidence: reads carrying Barcode aligned
// to Edge within Read, Count reads in total.  Read.End never exceeds the
// edge length.
type Alignment struct {
	Edge    EdgeID
	Barcode string
	Count   uint64
	Read    Range
}

// AlignmentStream carries barcode evidence from an aligner to an index.
// Ownership of each Alignment travels through the channel.
type AlignmentStream struct {
	Outlet chan Alignment
}

func NewAlignmentStream() *AlignmentStream {
	stream := &AlignmentStream{
		Outlet: make(chan Alignment, 4),
	}
	return stream
}

func (stream *AlignmentStream) Push(a Alignment) {
	stream.Outlet <- a
}

func (stream *AlignmentStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// StreamAlignments pushes the given alignments and closes the stream.
func StreamAlignments(alignments ...Alignment) *AlignmentStream {
	next := NewAlignmentStream()

	go func() {
		for _, a := range alignments {
			next.Outlet <- a
		}
		next.Close()
	}()

	return next
}

// BarcodeCount pairs an interned barcode with a read count.
type BarcodeCount struct {
	Code  BarcodeID
	Reads uint64
}
