package lib10x

import (
	"github.com/10x-systems/go10x/go10x"
)

// FrameInfoExtractor derives read-only barcode sets from a framed index.
// It never mutates the index.
type FrameInfoExtractor struct {
	index *BarcodeIndex[*FrameEdgeEntry]
}

func NewFrameInfoExtractor(index *BarcodeIndex[*FrameEdgeEntry]) *FrameInfoExtractor {
	return &FrameInfoExtractor{
		index: index,
	}
}

// fromHead reports an info when its count clears countThreshold and its
// leftmost covered frame starts strictly before tailThreshold nucleotides.
func fromHead(info *FrameBarcodeInfo, frameSize int, countThreshold uint64, tailThreshold int) bool {
	return info.Count() >= countThreshold &&
		info.LeftMost()*frameSize < tailThreshold
}

// BarcodesFromHead returns, in BarcodeID order, the barcodes at the head of
// the given edge whose count is at least countThreshold and whose leftmost
// covered frame starts before tailThreshold nucleotides.
func (ex *FrameInfoExtractor) BarcodesFromHead(edge go10x.EdgeID, countThreshold uint64, tailThreshold int) ([]go10x.BarcodeID, error) {
	entry, err := ex.index.GetEntryHeads(edge)
	if err != nil {
		return nil, err
	}

	var codes []go10x.BarcodeID
	entry.VisitInfos(func(code go10x.BarcodeID, info *FrameBarcodeInfo) bool {
		if fromHead(info, entry.FrameSize(), countThreshold, tailThreshold) {
			codes = append(codes, code)
		}
		return true
	})
	return codes, nil
}

// BarcodesAndCountsFromHead is BarcodesFromHead with the read count of each
// selected barcode attached.
func (ex *FrameInfoExtractor) BarcodesAndCountsFromHead(edge go10x.EdgeID, countThreshold uint64, tailThreshold int) ([]go10x.BarcodeCount, error) {
	entry, err := ex.index.GetEntryHeads(edge)
	if err != nil {
		return nil, err
	}

	var counts []go10x.BarcodeCount
	entry.VisitInfos(func(code go10x.BarcodeID, info *FrameBarcodeInfo) bool {
		if fromHead(info, entry.FrameSize(), countThreshold, tailThreshold) {
			counts = append(counts, go10x.BarcodeCount{Code: code, Reads: info.Count()})
		}
		return true
	})
	return counts, nil
}

// IntersectionSize counts the barcodes shared by the heads of two edges.
func (ex *FrameInfoExtractor) IntersectionSize(first, second go10x.EdgeID) (int, error) {
	a, err := ex.index.GetEntryHeads(first)
	if err != nil {
		return 0, err
	}
	b, err := ex.index.GetEntryHeads(second)
	if err != nil {
		return 0, err
	}
	return a.IntersectionSize(b), nil
}

// UnionSize counts the barcodes present at the head of either edge.
func (ex *FrameInfoExtractor) UnionSize(first, second go10x.EdgeID) (int, error) {
	a, err := ex.index.GetEntryHeads(first)
	if err != nil {
		return 0, err
	}
	b, err := ex.index.GetEntryHeads(second)
	if err != nil {
		return 0, err
	}
	return a.UnionSize(b), nil
}

// SharedBarcodes returns, in BarcodeID order, the barcodes present at the
// heads of both edges.
func (ex *FrameInfoExtractor) SharedBarcodes(first, second go10x.EdgeID) ([]go10x.BarcodeID, error) {
	a, err := ex.index.GetEntryHeads(first)
	if err != nil {
		return nil, err
	}
	b, err := ex.index.GetEntryHeads(second)
	if err != nil {
		return nil, err
	}

	var shared []go10x.BarcodeID
	a.VisitBarcodes(func(code go10x.BarcodeID) bool {
		if b.HasBarcode(code) {
			shared = append(shared, code)
		}
		return true
	})
	return shared, nil
}
