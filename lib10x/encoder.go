package lib10x

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/10x-systems/go10x/go10x"
)

// BarcodeEncoder interns barcode strings into dense BarcodeIDs.
//
// Ids are assigned in insertion order and are dense in [0, Size()).
// The encoder is append-only: there is no deletion.  Add and Get are safe
// for concurrent use during index construction.
type BarcodeEncoder struct {
	mu    sync.Mutex
	codes map[string]go10x.BarcodeID
}

func NewBarcodeEncoder() *BarcodeEncoder {
	return &BarcodeEncoder{
		codes: make(map[string]go10x.BarcodeID),
	}
}

// Add interns the given barcode, returning the existing id if present.
func (enc *BarcodeEncoder) Add(barcode string) go10x.BarcodeID {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	if code, ok := enc.codes[barcode]; ok {
		return code
	}
	code := go10x.BarcodeID(len(enc.codes))
	enc.codes[barcode] = code
	return code
}

// Get returns the id of a previously interned barcode.
func (enc *BarcodeEncoder) Get(barcode string) (go10x.BarcodeID, error) {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	code, ok := enc.codes[barcode]
	if !ok {
		return 0, errors.Wrap(go10x.ErrUnknownBarcode, barcode)
	}
	return code, nil
}

func (enc *BarcodeEncoder) Size() int {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	return len(enc.codes)
}
