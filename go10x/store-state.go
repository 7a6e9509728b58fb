package go10x

import (
	"github.com/gogo/protobuf/proto"
)

// StoreOpts specifies params for opening a lib10x barcode index store.
type StoreOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
	FrameSize  int64  // frame width of the stored index; 0 accepts whatever the store carries
}

// StoreState is the state record of a persisted barcode index store.
type StoreState struct {
	MajorVers   int32 `protobuf:"varint,1,opt,name=major_vers"`
	MinorVers   int32 `protobuf:"varint,2,opt,name=minor_vers"`
	FrameSize   int64 `protobuf:"varint,3,opt,name=frame_size"`
	EntryCount  int64 `protobuf:"varint,4,opt,name=entry_count"`
	NumBarcodes int64 `protobuf:"varint,5,opt,name=num_barcodes"`
}

func (m *StoreState) Reset()         { *m = StoreState{} }
func (m *StoreState) String() string { return proto.CompactTextString(m) }
func (*StoreState) ProtoMessage()    {}

func (m *StoreState) Marshal() ([]byte, error) {
	b := proto.NewBuffer(make([]byte, 0, 32))
	fields := []struct {
		num uint64
		val uint64
	}{
		{1, uint64(m.MajorVers)},
		{2, uint64(m.MinorVers)},
		{3, uint64(m.FrameSize)},
		{4, uint64(m.EntryCount)},
		{5, uint64(m.NumBarcodes)},
	}
	for _, f := range fields {
		if f.val == 0 {
			continue
		}
		if err := b.EncodeVarint(f.num << 3); err != nil {
			return nil, err
		}
		if err := b.EncodeVarint(f.val); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func (m *StoreState) Unmarshal(data []byte) error {
	m.Reset()

	b := proto.NewBuffer(data)
	for {
		key, err := b.DecodeVarint()
		if err != nil {
			// Key read fails only at end of buffer.
			return nil
		}
		if key&0x7 != 0 {
			return ErrMalformedSerialization
		}

		val, err := b.DecodeVarint()
		if err != nil {
			return err
		}
		switch key >> 3 {
		case 1:
			m.MajorVers = int32(val)
		case 2:
			m.MinorVers = int32(val)
		case 3:
			m.FrameSize = int64(val)
		case 4:
			m.EntryCount = int64(val)
		case 5:
			m.NumBarcodes = int64(val)
		}
	}
}
