package go10x

import "errors"

// Errors
var (
	ErrUnknownBarcode          = errors.New("barcode was never interned")
	ErrEdgeNotIndexed          = errors.New("edge is not present in the barcode index")
	ErrAmbiguousMerge          = errors.New("two scaffold edges share a start vertex")
	ErrBrokenConjugateSymmetry = errors.New("merge map is not closed under conjugation")
	ErrMalformedSerialization  = errors.New("malformed barcode entry serialization")
	ErrBadStoreParam           = errors.New("bad store param")
)
