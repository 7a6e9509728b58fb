package scaffold

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/10x-systems/go10x/go10x"
)

func barcodeIDComparator(a, b interface{}) int {
	A := a.(go10x.BarcodeID)
	B := b.(go10x.BarcodeID)
	switch {
	case A < B:
		return -1
	case A > B:
		return 1
	}
	return 0
}

// SimpleVertexEntry is the barcode set attached to one scaffold vertex,
// ordered by BarcodeID.
type SimpleVertexEntry struct {
	codes *treeset.Set
}

func NewSimpleVertexEntry(codes ...go10x.BarcodeID) *SimpleVertexEntry {
	entry := &SimpleVertexEntry{
		codes: treeset.NewWith(barcodeIDComparator),
	}
	for _, code := range codes {
		entry.codes.Add(code)
	}
	return entry
}

func (entry *SimpleVertexEntry) Add(code go10x.BarcodeID) {
	entry.codes.Add(code)
}

func (entry *SimpleVertexEntry) Contains(code go10x.BarcodeID) bool {
	return entry.codes.Contains(code)
}

func (entry *SimpleVertexEntry) Size() int {
	return entry.codes.Size()
}

// Barcodes returns the set in BarcodeID order.
func (entry *SimpleVertexEntry) Barcodes() []go10x.BarcodeID {
	out := make([]go10x.BarcodeID, 0, entry.codes.Size())
	entry.codes.Each(func(_ int, v interface{}) {
		out = append(out, v.(go10x.BarcodeID))
	})
	return out
}

// Equal reports set equality.
func (entry *SimpleVertexEntry) Equal(other *SimpleVertexEntry) bool {
	if entry.Size() != other.Size() {
		return false
	}
	equal := true
	entry.codes.Each(func(_ int, v interface{}) {
		if !other.codes.Contains(v) {
			equal = false
		}
	})
	return equal
}
