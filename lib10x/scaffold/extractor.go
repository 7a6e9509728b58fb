package scaffold

import (
	"github.com/plan-systems/klog"

	"github.com/10x-systems/go10x/go10x"
	"github.com/10x-systems/go10x/lib10x"
)

// GlobalCountThreshold is the minimum accumulated read count for a barcode
// to enter a path vertex entry.
const GlobalCountThreshold = 5

// ExtractorParams tune entry extraction.  TailThreshold is the head window
// in nucleotides, CountThreshold the per-edge read minimum, LengthThreshold
// the minimum edge length consulted inside a path.
type ExtractorParams struct {
	TailThreshold   int
	CountThreshold  uint64
	LengthThreshold int
}

// EntryExtractor derives the barcode set of a scaffold vertex from the
// framed index.  Extraction is a pure function of the vertex and the index:
// repeated calls agree.
type EntryExtractor struct {
	g         go10x.Graph
	extractor *lib10x.FrameInfoExtractor
	params    ExtractorParams
}

func NewEntryExtractor(g go10x.Graph, extractor *lib10x.FrameInfoExtractor, params ExtractorParams) *EntryExtractor {
	return &EntryExtractor{
		g:         g,
		extractor: extractor,
		params:    params,
	}
}

// ExtractEntry computes the barcode set of the given vertex.  An edge vertex
// takes its head window directly; a path vertex sweeps its edges,
// accumulating per-barcode read counts within the head window and keeping
// the barcodes that reach GlobalCountThreshold.
func (ex *EntryExtractor) ExtractEntry(v Vertex) (*SimpleVertexEntry, error) {
	switch vertex := v.(type) {
	case EdgeVertex:
		return ex.extractFromEdge(vertex.Edge)
	case PathVertex:
		return ex.extractFromPath(vertex.P)
	default:
		klog.Warningf("unknown scaffold vertex variant %T", v)
		return NewSimpleVertexEntry(), nil
	}
}

func (ex *EntryExtractor) extractFromEdge(edge go10x.EdgeID) (*SimpleVertexEntry, error) {
	codes, err := ex.extractor.BarcodesFromHead(edge, ex.params.CountThreshold, ex.params.TailThreshold)
	if err != nil {
		return nil, err
	}
	return NewSimpleVertexEntry(codes...), nil
}

func (ex *EntryExtractor) extractFromPath(path *BidirectionalPath) (*SimpleVertexEntry, error) {
	readSum := make(map[go10x.BarcodeID]uint64)

	prefix := 0
	for i := 0; i < path.Size() && prefix <= ex.params.TailThreshold; i++ {
		edge := path.At(i)
		length := ex.g.Length(edge)

		// Short edges contribute their span but are never queried.
		if length < ex.params.LengthThreshold {
			prefix += length
			continue
		}

		currentTail := ex.params.TailThreshold - prefix
		counts, err := ex.extractor.BarcodesAndCountsFromHead(edge, ex.params.CountThreshold, currentTail)
		if err != nil {
			return nil, err
		}
		for _, bc := range counts {
			readSum[bc.Code] += bc.Reads
		}
		prefix += length
	}

	entry := NewSimpleVertexEntry()
	for code, reads := range readSum {
		if reads >= GlobalCountThreshold {
			entry.Add(code)
		}
	}
	return entry, nil
}
