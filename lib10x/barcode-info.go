package lib10x

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/10x-systems/go10x/go10x"
)

// SimpleBarcodeInfo is the coarse per-(edge,barcode) evidence: a read count
// plus the positional envelope of all contributing reads.
type SimpleBarcodeInfo struct {
	count uint64
	rng   go10x.Range
}

func NewSimpleBarcodeInfo(count uint64, r go10x.Range) *SimpleBarcodeInfo {
	return &SimpleBarcodeInfo{
		count: count,
		rng:   r,
	}
}

// Update folds another observation into this info: counts add, the range
// extends to the componentwise min/max envelope.
func (info *SimpleBarcodeInfo) Update(count uint64, r go10x.Range) {
	info.count += count
	if r.Start < info.rng.Start {
		info.rng.Start = r.Start
	}
	if r.End > info.rng.End {
		info.rng.End = r.End
	}
}

// Merge is Update over a whole info; the two are symmetric.
func (info *SimpleBarcodeInfo) Merge(other *SimpleBarcodeInfo) {
	info.Update(other.count, other.rng)
}

func (info *SimpleBarcodeInfo) Count() uint64 {
	return info.count
}

func (info *SimpleBarcodeInfo) Range() go10x.Range {
	return info.rng
}

// FrameBarcodeInfo is the fine per-(edge,barcode) evidence: a read count plus
// a packed coverage bitset over fixed-width frames along the edge.
//
// Before the first update the sentinel state is leftmost == frames,
// rightmost == 0, count == 0 and an empty bitset.  After any update with
// count >= 1: leftmost <= rightmost < frames, the boundary bits are set, and
// the covered-frame count never exceeds rightmost - leftmost + 1.
type FrameBarcodeInfo struct {
	count     uint64
	isOn      *roaring.Bitmap
	leftmost  int
	rightmost int
	frames    int
}

func NewFrameBarcodeInfo(frames int) *FrameBarcodeInfo {
	return &FrameBarcodeInfo{
		isOn:      roaring.New(),
		leftmost:  frames,
		rightmost: 0,
		frames:    frames,
	}
}

// Update adds count reads whose alignment spans frames [leftFrame, rightFrame].
func (info *FrameBarcodeInfo) Update(count uint64, leftFrame, rightFrame int) {
	info.count += count
	info.isOn.AddRange(uint64(leftFrame), uint64(rightFrame)+1)
	if leftFrame < info.leftmost {
		info.leftmost = leftFrame
	}
	if rightFrame > info.rightmost {
		info.rightmost = rightFrame
	}
}

func (info *FrameBarcodeInfo) Merge(other *FrameBarcodeInfo) {
	info.count += other.count
	info.isOn.Or(other.isOn)
	if other.leftmost < info.leftmost {
		info.leftmost = other.leftmost
	}
	if other.rightmost > info.rightmost {
		info.rightmost = other.rightmost
	}
}

func (info *FrameBarcodeInfo) Count() uint64 {
	return info.count
}

func (info *FrameBarcodeInfo) LeftMost() int {
	return info.leftmost
}

func (info *FrameBarcodeInfo) RightMost() int {
	return info.rightmost
}

// Frame reports whether at least one read fell in the given frame.
func (info *FrameBarcodeInfo) Frame(frame int) bool {
	return info.isOn.Contains(uint32(frame))
}

// Frames returns the width of the coverage bitset.
func (info *FrameBarcodeInfo) Frames() int {
	return info.frames
}

// Covered returns the number of frames with at least one read.
func (info *FrameBarcodeInfo) Covered() int {
	return int(info.isOn.GetCardinality())
}

// appendBitset renders the coverage bitset MSB-first (frame frames-1 leftmost).
func (info *FrameBarcodeInfo) appendBitset(out []byte) []byte {
	for i := info.frames - 1; i >= 0; i-- {
		if info.isOn.Contains(uint32(i)) {
			out = append(out, '1')
		} else {
			out = append(out, '0')
		}
	}
	return out
}

// setFromBitset rebuilds the info from an MSB-first '0'/'1' rendering.
// leftmost and rightmost are recomputed from the set bits.
func (info *FrameBarcodeInfo) setFromBitset(bits string) error {
	frames := len(bits)
	isOn := roaring.New()
	leftmost := frames
	rightmost := 0

	for i, c := range bits {
		switch c {
		case '0':
		case '1':
			frame := frames - 1 - i
			isOn.Add(uint32(frame))
			if frame < leftmost {
				leftmost = frame
			}
			if frame > rightmost {
				rightmost = frame
			}
		default:
			return go10x.ErrMalformedSerialization
		}
	}

	info.isOn = isOn
	info.leftmost = leftmost
	info.rightmost = rightmost
	info.frames = frames
	return nil
}

// equalsProjection compares two frame infos under the serialization
// projection (count, leftmost, rightmost, is_on).
func (info *FrameBarcodeInfo) equalsProjection(other *FrameBarcodeInfo) bool {
	return info.count == other.count &&
		info.leftmost == other.leftmost &&
		info.rightmost == other.rightmost &&
		info.isOn.Equals(other.isOn)
}
