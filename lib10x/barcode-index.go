package lib10x

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/10x-systems/go10x/go10x"
)

// BarcodeIndex maps every oriented edge of the graph to its barcode
// distribution.  E is one of the two entry variants; an index never mixes
// them.
//
// Head evidence for an edge e lives in the entry of e itself; tail evidence
// is the head evidence of its conjugate twin.
type BarcodeIndex[E EdgeEntry] struct {
	g           go10x.Graph
	edgeToEntry map[go10x.EdgeID]E
	newEntry    func(edge go10x.EdgeID) E
	numBarcodes int
}

// NewSimpleIndex creates an index of coarse (count + range envelope) entries.
func NewSimpleIndex(g go10x.Graph) *BarcodeIndex[*SimpleEdgeEntry] {
	return &BarcodeIndex[*SimpleEdgeEntry]{
		g:           g,
		edgeToEntry: make(map[go10x.EdgeID]*SimpleEdgeEntry),
		newEntry:    NewSimpleEdgeEntry,
	}
}

// NewFrameIndex creates an index of framed entries with the given uniform
// frame width.
func NewFrameIndex(g go10x.Graph, frameSize int) *BarcodeIndex[*FrameEdgeEntry] {
	return &BarcodeIndex[*FrameEdgeEntry]{
		g:           g,
		edgeToEntry: make(map[go10x.EdgeID]*FrameEdgeEntry),
		newEntry: func(edge go10x.EdgeID) *FrameEdgeEntry {
			return NewFrameEdgeEntry(edge, g.Length(edge), frameSize)
		},
	}
}

func (idx *BarcodeIndex[E]) Graph() go10x.Graph {
	return idx.g
}

// InitialFill inserts an empty entry for every oriented edge of the graph.
func (idx *BarcodeIndex[E]) InitialFill() {
	for _, edge := range idx.g.Edges() {
		idx.edgeToEntry[edge] = idx.newEntry(edge)
	}
}

// Size returns the number of entries, one per oriented edge after
// InitialFill.
func (idx *BarcodeIndex[E]) Size() int {
	return len(idx.edgeToEntry)
}

func (idx *BarcodeIndex[E]) IsEmpty() bool {
	return idx.Size() == 0
}

// NumberOfBarcodes returns the number of distinct barcodes folded in through
// FillFromStream (or restored by a loader).
func (idx *BarcodeIndex[E]) NumberOfBarcodes() int {
	return idx.numBarcodes
}

func (idx *BarcodeIndex[E]) SetNumberOfBarcodes(n int) {
	idx.numBarcodes = n
}

// Ingest folds one unit of barcode evidence into the entry of the given
// edge.
func (idx *BarcodeIndex[E]) Ingest(edge go10x.EdgeID, code go10x.BarcodeID, count uint64, r go10x.Range) error {
	entry, found := idx.edgeToEntry[edge]
	if !found {
		return errors.Wrapf(go10x.ErrEdgeNotIndexed, "edge %d", idx.g.IntID(edge))
	}
	entry.InsertBarcode(code, count, r)
	return nil
}

// FillFromStream drains an alignment stream, interning each barcode through
// the encoder and ingesting the evidence.  It returns once the stream's
// outlet closes.
func (idx *BarcodeIndex[E]) FillFromStream(stream *go10x.AlignmentStream, enc *BarcodeEncoder) error {
	var fillErr error
	for a := range stream.Outlet {
		if fillErr != nil {
			continue // drain so the producer can finish
		}
		code := enc.Add(a.Barcode)
		fillErr = idx.Ingest(a.Edge, code, a.Count, a.Read)
	}
	if fillErr != nil {
		return fillErr
	}
	idx.numBarcodes = enc.Size()
	return nil
}

// GetEntryHeads returns the entry holding head evidence for the given edge.
func (idx *BarcodeIndex[E]) GetEntryHeads(edge go10x.EdgeID) (E, error) {
	entry, found := idx.edgeToEntry[edge]
	if !found {
		var zero E
		return zero, errors.Wrapf(go10x.ErrEdgeNotIndexed, "edge %d", idx.g.IntID(edge))
	}
	return entry, nil
}

// GetEntryTails returns the entry holding tail evidence for the given edge,
// which is the head entry of its conjugate.
func (idx *BarcodeIndex[E]) GetEntryTails(edge go10x.EdgeID) (E, error) {
	return idx.GetEntryHeads(idx.g.Conjugate(edge))
}

// HeadCount returns the number of barcodes at the head of the given edge.
func (idx *BarcodeIndex[E]) HeadCount(edge go10x.EdgeID) (int, error) {
	entry, err := idx.GetEntryHeads(edge)
	if err != nil {
		return 0, err
	}
	return entry.Size(), nil
}

// TailCount returns the number of barcodes at the tail of the given edge.
func (idx *BarcodeIndex[E]) TailCount(edge go10x.EdgeID) (int, error) {
	entry, err := idx.GetEntryTails(edge)
	if err != nil {
		return 0, err
	}
	return entry.Size(), nil
}

// VisitHeadBarcodes walks the head barcodes of the given edge in BarcodeID
// order.
func (idx *BarcodeIndex[E]) VisitHeadBarcodes(edge go10x.EdgeID, visit func(code go10x.BarcodeID) bool) error {
	entry, err := idx.GetEntryHeads(edge)
	if err != nil {
		return err
	}
	entry.VisitBarcodes(visit)
	return nil
}

// VisitTailBarcodes walks the tail barcodes of the given edge in BarcodeID
// order.
func (idx *BarcodeIndex[E]) VisitTailBarcodes(edge go10x.EdgeID, visit func(code go10x.BarcodeID) bool) error {
	return idx.VisitHeadBarcodes(idx.g.Conjugate(edge), visit)
}

// VisitEntries walks all entries in unspecified order until visit returns
// false.
func (idx *BarcodeIndex[E]) VisitEntries(visit func(entry E) bool) {
	for _, entry := range idx.edgeToEntry {
		if !visit(entry) {
			return
		}
	}
}

// Filter removes low-abundance and far-from-head barcodes from every
// non-empty entry.
func (idx *BarcodeIndex[E]) Filter(trimThreshold uint64, gapThreshold int) {
	for _, entry := range idx.edgeToEntry {
		if entry.Size() == 0 {
			continue
		}
		entry.Filter(trimThreshold, gapThreshold)
	}
}

// WriteEntry writes the persisted form of one edge's entry: the edge's
// numeric id on its own line, then the entry distribution.
func (idx *BarcodeIndex[E]) WriteEntry(w io.Writer, edge go10x.EdgeID) error {
	entry, err := idx.GetEntryHeads(edge)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d\n", idx.g.IntID(edge)); err != nil {
		return errors.Wrap(err, "writing edge id")
	}
	return entry.Serialize(w)
}

// ReadEntry reads the persisted form of one edge's entry and merges it into
// the index.  The id on the stream must match the given edge.
func (idx *BarcodeIndex[E]) ReadEntry(sc *bufio.Scanner, edge go10x.EdgeID) error {
	entry, err := idx.GetEntryHeads(edge)
	if err != nil {
		return err
	}

	id, err := scanCount(sc)
	if err != nil {
		return err
	}
	if uint64(id) != idx.g.IntID(edge) {
		return errors.Wrapf(go10x.ErrMalformedSerialization,
			"entry id %d, want %d", id, idx.g.IntID(edge))
	}
	return entry.Deserialize(sc)
}
