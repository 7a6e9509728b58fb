package catalog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/10x-systems/go10x/go10x"
	"github.com/10x-systems/go10x/lib10x"
)

/***

Store database format:

	gStoreStateKey => StoreState

	gEntryKeyPrefix, [8]byte big-endian edge int id => entry text form
		<edge_int_id>\n
		<n_barcodes>\n
		<barcode_int_id> <info>\n   x n_barcodes

One record per oriented edge.  The state record carries the format version,
the frame width the index was built with, and the entry and barcode counts,
so a store can be validated before any entry is read.

***/

var (
	gStoreStateKey  = []byte{0x00, 0x00, 0x01}
	gEntryKeyPrefix = []byte{0x00, 0x00, 0x02}
)

const (
	storeMajorVers = 2023
	storeMinorVers = 1
)

// Store is a db wrapper for a persisted barcode index.
type Store struct {
	readOnly   bool
	stateDirty bool
	state      go10x.StoreState
	db         *badger.DB
}

func OpenStore(opts go10x.StoreOpts) (*Store, error) {
	st := &Store{
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(go10x.ErrBadStoreParam, "DbPathName must be specified for read-only store")
		}
		dbOpts.InMemory = true
	}

	var err error
	st.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = st.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		if opts.FrameSize <= 0 {
			err = errors.Wrap(go10x.ErrBadStoreParam, "FrameSize must be > 0 for a new store")
		} else {
			st.stateDirty = true
			st.state.MajorVers = storeMajorVers
			st.state.MinorVers = storeMinorVers
			st.state.FrameSize = opts.FrameSize
		}
	}

	if err == nil {
		if st.state.MajorVers != storeMajorVers || st.state.MinorVers != storeMinorVers {
			err = errors.New("store version is incompatible")
		} else if opts.FrameSize > 0 && opts.FrameSize != st.state.FrameSize {
			err = errors.Wrapf(go10x.ErrBadStoreParam,
				"store frame size is %d, want %d", st.state.FrameSize, opts.FrameSize)
		}
	}

	if err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) loadState() error {
	return st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gStoreStateKey)
		if err == nil {
			item.Value(func(val []byte) error {
				return st.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (st *Store) flushState() {
	if st.stateDirty {
		err := st.db.Update(func(txn *badger.Txn) error {
			stateBuf, err := st.state.Marshal()
			if err != nil {
				return err
			}
			return txn.Set(gStoreStateKey, stateBuf)
		})
		if err != nil {
			panic(err)
		}
		st.stateDirty = false
	}
}

func (st *Store) Close() error {
	if !st.readOnly {
		st.flushState()
	}
	if st.db != nil {
		st.db.Close()
		st.db = nil
	}
	return nil
}

func (st *Store) IsReadOnly() bool {
	return st.readOnly
}

// FrameSize is the frame width the stored index was built with.
func (st *Store) FrameSize() int {
	return int(st.state.FrameSize)
}

// EntryCount is the number of stored per-edge entries.
func (st *Store) EntryCount() int {
	return int(st.state.EntryCount)
}

// NumBarcodes is the number of distinct barcodes in the stored index.
func (st *Store) NumBarcodes() int {
	return int(st.state.NumBarcodes)
}

func entryKey(intID uint64) []byte {
	key := make([]byte, 0, len(gEntryKeyPrefix)+8)
	key = append(key, gEntryKeyPrefix...)
	return binary.BigEndian.AppendUint64(key, intID)
}

// SaveIndex writes one record per oriented edge of the index, then updates
// the state record.
func SaveIndex[E lib10x.EdgeEntry](st *Store, idx *lib10x.BarcodeIndex[E]) error {
	if st.readOnly {
		return errors.Wrap(go10x.ErrBadStoreParam, "store is read-only")
	}

	g := idx.Graph()
	edges := g.Edges()

	txn := st.db.NewTransaction(true)
	defer func() {
		txn.Discard()
	}()

	var buf bytes.Buffer
	for _, edge := range edges {
		buf.Reset()
		if err := idx.WriteEntry(&buf, edge); err != nil {
			return err
		}

		key := entryKey(g.IntID(edge))
		err := txn.Set(key, append([]byte{}, buf.Bytes()...))
		if err == badger.ErrTxnTooBig {
			if err = txn.Commit(); err != nil {
				return err
			}
			txn = st.db.NewTransaction(true)
			err = txn.Set(key, append([]byte{}, buf.Bytes()...))
		}
		if err != nil {
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	st.state.EntryCount = int64(len(edges))
	st.state.NumBarcodes = int64(idx.NumberOfBarcodes())
	st.stateDirty = true
	st.flushState()
	return nil
}

// LoadIndex reads the stored record of every oriented edge of the index's
// graph into the given index.  The index must already hold an entry per
// edge, so callers run InitialFill first.
func LoadIndex[E lib10x.EdgeEntry](st *Store, idx *lib10x.BarcodeIndex[E]) error {
	g := idx.Graph()

	err := st.db.View(func(txn *badger.Txn) error {
		for _, edge := range g.Edges() {
			item, err := txn.Get(entryKey(g.IntID(edge)))
			if err == badger.ErrKeyNotFound {
				return errors.Wrapf(go10x.ErrEdgeNotIndexed, "edge %d not in store", g.IntID(edge))
			}
			if err != nil {
				return err
			}

			err = item.Value(func(val []byte) error {
				sc := bufio.NewScanner(bytes.NewReader(val))
				sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
				return idx.ReadEntry(sc, edge)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	idx.SetNumberOfBarcodes(int(st.state.NumBarcodes))
	return nil
}
