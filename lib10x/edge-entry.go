package lib10x

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/10x-systems/go10x/go10x"
)

// EdgeEntry is the capability set the barcode index requires of its per-edge
// distributions.  SimpleEdgeEntry and FrameEdgeEntry are the two variants;
// an index holds exactly one of them, never a mix.
type EdgeEntry interface {
	Edge() go10x.EdgeID
	Size() int
	HasBarcode(code go10x.BarcodeID) bool
	VisitBarcodes(visit func(code go10x.BarcodeID) bool)

	InsertBarcode(code go10x.BarcodeID, count uint64, r go10x.Range)
	Filter(trimThreshold uint64, gapThreshold int)

	Serialize(w io.Writer) error
	Deserialize(sc *bufio.Scanner) error
}

// barcodeIDComparator orders distribution keys by BarcodeID.
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

// edgeEntry is the shared core of both entry variants: the edge handle plus
// the ordered BarcodeID -> info distribution.
type edgeEntry struct {
	edge         go10x.EdgeID
	distribution *redblacktree.Tree
}

func newEdgeEntry(edge go10x.EdgeID) edgeEntry {
	return edgeEntry{
		edge: edge,
		distribution: &redblacktree.Tree{
			Comparator: barcodeIDComparator,
		},
	}
}

func (e *edgeEntry) Edge() go10x.EdgeID {
	return e.edge
}

func (e *edgeEntry) Size() int {
	return e.distribution.Size()
}

func (e *edgeEntry) HasBarcode(code go10x.BarcodeID) bool {
	_, found := e.distribution.Get(code)
	return found
}

// VisitBarcodes walks the distribution keys in BarcodeID order until visit
// returns false.
func (e *edgeEntry) VisitBarcodes(visit func(code go10x.BarcodeID) bool) {
	it := e.distribution.Iterator()
	for it.Next() {
		if !visit(it.Key().(go10x.BarcodeID)) {
			return
		}
	}
}

// intersectionSize counts the barcodes present in both distributions.
func (e *edgeEntry) intersectionSize(other *edgeEntry) int {
	small, large := e, other
	if large.Size() < small.Size() {
		small, large = large, small
	}

	shared := 0
	it := small.distribution.Iterator()
	for it.Next() {
		if _, found := large.distribution.Get(it.Key()); found {
			shared++
		}
	}
	return shared
}

func (e *edgeEntry) unionSize(other *edgeEntry) int {
	return e.Size() + other.Size() - e.intersectionSize(other)
}

// removeAll drops the given keys from the distribution.
func (e *edgeEntry) removeAll(doomed []go10x.BarcodeID) {
	for _, code := range doomed {
		e.distribution.Remove(code)
	}
}

// SimpleEdgeEntry keeps a SimpleBarcodeInfo per barcode.
type SimpleEdgeEntry struct {
	edgeEntry
}

func NewSimpleEdgeEntry(edge go10x.EdgeID) *SimpleEdgeEntry {
	return &SimpleEdgeEntry{
		edgeEntry: newEdgeEntry(edge),
	}
}

func (e *SimpleEdgeEntry) InsertBarcode(code go10x.BarcodeID, count uint64, r go10x.Range) {
	if v, found := e.distribution.Get(code); found {
		v.(*SimpleBarcodeInfo).Update(count, r)
		return
	}
	e.distribution.Put(code, NewSimpleBarcodeInfo(count, r))
}

// InsertInfo merges a whole info into the distribution.
func (e *SimpleEdgeEntry) InsertInfo(code go10x.BarcodeID, info *SimpleBarcodeInfo) {
	if v, found := e.distribution.Get(code); found {
		v.(*SimpleBarcodeInfo).Merge(info)
		return
	}
	e.distribution.Put(code, info)
}

func (e *SimpleEdgeEntry) Info(code go10x.BarcodeID) (*SimpleBarcodeInfo, bool) {
	v, found := e.distribution.Get(code)
	if !found {
		return nil, false
	}
	return v.(*SimpleBarcodeInfo), true
}

func (e *SimpleEdgeEntry) VisitInfos(visit func(code go10x.BarcodeID, info *SimpleBarcodeInfo) bool) {
	it := e.distribution.Iterator()
	for it.Next() {
		if !visit(it.Key().(go10x.BarcodeID), it.Value().(*SimpleBarcodeInfo)) {
			return
		}
	}
}

func (e *SimpleEdgeEntry) IntersectionSize(other *SimpleEdgeEntry) int {
	return e.intersectionSize(&other.edgeEntry)
}

func (e *SimpleEdgeEntry) UnionSize(other *SimpleEdgeEntry) int {
	return e.unionSize(&other.edgeEntry)
}

// Filter drops every barcode whose evidence is low-abundance
// (count < trimThreshold) or far from the edge head
// (range start > gapThreshold).
func (e *SimpleEdgeEntry) Filter(trimThreshold uint64, gapThreshold int) {
	var doomed []go10x.BarcodeID

	it := e.distribution.Iterator()
	for it.Next() {
		info := it.Value().(*SimpleBarcodeInfo)
		if info.Count() < trimThreshold || info.Range().Start > gapThreshold {
			doomed = append(doomed, it.Key().(go10x.BarcodeID))
		}
	}
	e.removeAll(doomed)
}

// Serialize writes the distribution in the line-oriented text form:
// a barcode count line, then one "<code> <count> <start> <end>" line per
// barcode in BarcodeID order.
func (e *SimpleEdgeEntry) Serialize(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d\n", e.Size()); err != nil {
		return errors.Wrap(err, "serializing entry header")
	}

	it := e.distribution.Iterator()
	for it.Next() {
		code := it.Key().(go10x.BarcodeID)
		info := it.Value().(*SimpleBarcodeInfo)
		r := info.Range()
		if _, err := fmt.Fprintf(w, "%d %d %d %d\n", code, info.Count(), r.Start, r.End); err != nil {
			return errors.Wrap(err, "serializing entry line")
		}
	}
	return nil
}

// Deserialize reads the text form produced by Serialize, merging into the
// receiver.  Malformed input fails with ErrMalformedSerialization.
func (e *SimpleEdgeEntry) Deserialize(sc *bufio.Scanner) error {
	n, err := scanCount(sc)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		fields, err := scanFields(sc, 4)
		if err != nil {
			return err
		}
		code, err := parseBarcodeID(fields[0])
		if err != nil {
			return err
		}
		count, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return errors.Wrap(go10x.ErrMalformedSerialization, fields[1])
		}
		start, err := parseNonNegative(fields[2])
		if err != nil {
			return err
		}
		end, err := parseNonNegative(fields[3])
		if err != nil {
			return err
		}
		e.InsertInfo(code, NewSimpleBarcodeInfo(count, go10x.Range{Start: start, End: end}))
	}
	return nil
}

// FrameEdgeEntry keeps a FrameBarcodeInfo per barcode, with the edge divided
// into fixed-width frames.  The index of the last frame is
// edgeLength / frameSize, so numFrames is that plus one.
type FrameEdgeEntry struct {
	edgeEntry
	edgeLength int
	frameSize  int
	numFrames  int
}

func NewFrameEdgeEntry(edge go10x.EdgeID, edgeLength, frameSize int) *FrameEdgeEntry {
	return &FrameEdgeEntry{
		edgeEntry:  newEdgeEntry(edge),
		edgeLength: edgeLength,
		frameSize:  frameSize,
		numFrames:  edgeLength/frameSize + 1,
	}
}

func (e *FrameEdgeEntry) FrameSize() int {
	return e.frameSize
}

func (e *FrameEdgeEntry) NumberOfFrames() int {
	return e.numFrames
}

// InsertBarcode translates the range to frame indices and folds it in.
func (e *FrameEdgeEntry) InsertBarcode(code go10x.BarcodeID, count uint64, r go10x.Range) {
	leftFrame := r.Start / e.frameSize
	rightFrame := r.End / e.frameSize

	var info *FrameBarcodeInfo
	if v, found := e.distribution.Get(code); found {
		info = v.(*FrameBarcodeInfo)
	} else {
		info = NewFrameBarcodeInfo(e.numFrames)
		e.distribution.Put(code, info)
	}
	info.Update(count, leftFrame, rightFrame)
}

func (e *FrameEdgeEntry) InsertInfo(code go10x.BarcodeID, info *FrameBarcodeInfo) {
	if v, found := e.distribution.Get(code); found {
		v.(*FrameBarcodeInfo).Merge(info)
		return
	}
	e.distribution.Put(code, info)
}

func (e *FrameEdgeEntry) Info(code go10x.BarcodeID) (*FrameBarcodeInfo, bool) {
	v, found := e.distribution.Get(code)
	if !found {
		return nil, false
	}
	return v.(*FrameBarcodeInfo), true
}

func (e *FrameEdgeEntry) VisitInfos(visit func(code go10x.BarcodeID, info *FrameBarcodeInfo) bool) {
	it := e.distribution.Iterator()
	for it.Next() {
		if !visit(it.Key().(go10x.BarcodeID), it.Value().(*FrameBarcodeInfo)) {
			return
		}
	}
}

func (e *FrameEdgeEntry) IntersectionSize(other *FrameEdgeEntry) int {
	return e.intersectionSize(&other.edgeEntry)
}

func (e *FrameEdgeEntry) UnionSize(other *FrameEdgeEntry) int {
	return e.unionSize(&other.edgeEntry)
}

// Filter drops every barcode whose evidence is low-abundance
// (count < trimThreshold) or far from the edge head
// (leftmost frame > gapThreshold / frameSize).
func (e *FrameEdgeEntry) Filter(trimThreshold uint64, gapThreshold int) {
	gapFrame := gapThreshold / e.frameSize

	var doomed []go10x.BarcodeID
	it := e.distribution.Iterator()
	for it.Next() {
		info := it.Value().(*FrameBarcodeInfo)
		if info.Count() < trimThreshold || info.LeftMost() > gapFrame {
			doomed = append(doomed, it.Key().(go10x.BarcodeID))
		}
	}
	e.removeAll(doomed)
}

// Serialize writes the distribution in the line-oriented text form:
// a barcode count line, then one "<code> <count> <bitset>" line per barcode
// in BarcodeID order.  The bitset is rendered MSB-first at width numFrames.
func (e *FrameEdgeEntry) Serialize(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d\n", e.Size()); err != nil {
		return errors.Wrap(err, "serializing entry header")
	}

	var line []byte
	it := e.distribution.Iterator()
	for it.Next() {
		code := it.Key().(go10x.BarcodeID)
		info := it.Value().(*FrameBarcodeInfo)

		line = line[:0]
		line = strconv.AppendUint(line, uint64(code), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, info.Count(), 10)
		line = append(line, ' ')
		line = info.appendBitset(line)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return errors.Wrap(err, "serializing entry line")
		}
	}
	return nil
}

// Deserialize reads the text form produced by Serialize, merging into the
// receiver.  The bitset width must match the entry's frame count; leftmost
// and rightmost are recomputed from the set bits.
func (e *FrameEdgeEntry) Deserialize(sc *bufio.Scanner) error {
	n, err := scanCount(sc)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		fields, err := scanFields(sc, 3)
		if err != nil {
			return err
		}
		code, err := parseBarcodeID(fields[0])
		if err != nil {
			return err
		}
		count, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return errors.Wrap(go10x.ErrMalformedSerialization, fields[1])
		}
		if len(fields[2]) != e.numFrames {
			return errors.Wrapf(go10x.ErrMalformedSerialization,
				"bitset width %d, want %d", len(fields[2]), e.numFrames)
		}

		info := NewFrameBarcodeInfo(e.numFrames)
		if err := info.setFromBitset(fields[2]); err != nil {
			return err
		}
		info.count = count
		e.InsertInfo(code, info)
	}
	return nil
}

// equalsProjection compares two frame entries under the serialization
// projection, info by info.
func (e *FrameEdgeEntry) equalsProjection(other *FrameEdgeEntry) bool {
	if e.Size() != other.Size() {
		return false
	}

	equal := true
	e.VisitInfos(func(code go10x.BarcodeID, info *FrameBarcodeInfo) bool {
		otherInfo, found := other.Info(code)
		if !found || !info.equalsProjection(otherInfo) {
			equal = false
		}
		return equal
	})
	return equal
}

// scanLine returns the next line, or ErrMalformedSerialization when the
// stream ends early.
func scanLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", errors.Wrap(err, "reading entry")
		}
		return "", errors.Wrap(go10x.ErrMalformedSerialization, "unexpected end of stream")
	}
	return sc.Text(), nil
}

// scanCount reads a single non-negative integer line.
func scanCount(sc *bufio.Scanner) (int, error) {
	line, err := scanLine(sc)
	if err != nil {
		return 0, err
	}
	return parseNonNegative(strings.TrimSpace(line))
}

// scanFields reads a line and splits it into exactly want fields.
func scanFields(sc *bufio.Scanner, want int) ([]string, error) {
	line, err := scanLine(sc)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != want {
		return nil, errors.Wrap(go10x.ErrMalformedSerialization, line)
	}
	return fields, nil
}

func parseNonNegative(token string) (int, error) {
	v, err := strconv.Atoi(token)
	if err != nil || v < 0 {
		return 0, errors.Wrap(go10x.ErrMalformedSerialization, token)
	}
	return v, nil
}

func parseBarcodeID(token string) (go10x.BarcodeID, error) {
	v, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, errors.Wrap(go10x.ErrMalformedSerialization, token)
	}
	return go10x.BarcodeID(v), nil
}
