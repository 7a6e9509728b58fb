package lib10x

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/10x-systems/go10x/go10x"
)

func TestEncoderDenseIds(t *testing.T) {
	enc := NewBarcodeEncoder()

	a := enc.Add("AACCGGTT")
	b := enc.Add("TTGGCCAA")
	if a != 0 || b != 1 {
		t.Fatalf("ids not dense: %d %d", a, b)
	}
	if again := enc.Add("AACCGGTT"); again != a {
		t.Fatalf("re-add returned %d, want %d", again, a)
	}
	if enc.Size() != 2 {
		t.Fatalf("size %d, want 2", enc.Size())
	}

	got, err := enc.Get("AACCGGTT")
	if err != nil || got != a {
		t.Fatalf("get: %d, %v", got, err)
	}
	if _, err := enc.Get("GATTACA"); !errors.Is(err, go10x.ErrUnknownBarcode) {
		t.Fatalf("want ErrUnknownBarcode, got %v", err)
	}
}

func TestMinimalFrameIndex(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	enc := NewBarcodeEncoder()
	stream := go10x.StreamAlignments(
		go10x.Alignment{Edge: e, Barcode: "AAAA", Count: 3, Read: go10x.Range{Start: 5, End: 25}},
		go10x.Alignment{Edge: e, Barcode: "AAAA", Count: 2, Read: go10x.Range{Start: 40, End: 55}},
	)
	if err := idx.FillFromStream(stream, enc); err != nil {
		t.Fatal(err)
	}

	heads, err := idx.HeadCount(e)
	if err != nil || heads != 1 {
		t.Fatalf("head count %d, %v", heads, err)
	}
	tails, err := idx.TailCount(e)
	if err != nil || tails != 0 {
		t.Fatalf("tail count %d, %v", tails, err)
	}

	// Tail evidence of the conjugate is head evidence of e.
	conjTails, err := idx.TailCount(g.Conjugate(e))
	if err != nil || conjTails != heads {
		t.Fatalf("conjugate tail count %d, want %d", conjTails, heads)
	}

	var visited []go10x.BarcodeID
	err = idx.VisitHeadBarcodes(e, func(code go10x.BarcodeID) bool {
		visited = append(visited, code)
		return true
	})
	if err != nil || len(visited) != 1 {
		t.Fatalf("visited %v, %v", visited, err)
	}

	entry, err := idx.GetEntryHeads(e)
	if err != nil {
		t.Fatal(err)
	}
	code, err := enc.Get("AAAA")
	if err != nil {
		t.Fatal(err)
	}
	info, found := entry.Info(code)
	if !found {
		t.Fatal("barcode missing from entry")
	}

	if info.Count() != 5 {
		t.Fatalf("count %d, want 5", info.Count())
	}
	if info.LeftMost() != 0 || info.RightMost() != 5 {
		t.Fatalf("envelope [%d, %d], want [0, 5]", info.LeftMost(), info.RightMost())
	}
	for _, frame := range []int{0, 1, 2, 4, 5} {
		if !info.Frame(frame) {
			t.Fatalf("frame %d should be covered", frame)
		}
	}
	if info.Frame(3) {
		t.Fatal("frame 3 covered by no read")
	}
	if info.Covered() != 5 {
		t.Fatalf("covered %d, want 5", info.Covered())
	}
}

func TestFilterThreshold(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	if err := idx.Ingest(e, 0, 1, go10x.Range{Start: 0, End: 10}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Ingest(e, 1, 10, go10x.Range{Start: 0, End: 10}); err != nil {
		t.Fatal(err)
	}

	idx.Filter(5, 1000)

	entry, err := idx.GetEntryHeads(e)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Size() != 1 {
		t.Fatalf("size %d, want 1", entry.Size())
	}
	if entry.HasBarcode(0) {
		t.Fatal("low-abundance barcode survived")
	}
	if !entry.HasBarcode(1) {
		t.Fatal("abundant barcode removed")
	}
}

func TestFilterFarFromHead(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	if err := idx.Ingest(e, 0, 100, go10x.Range{Start: 80, End: 90}); err != nil {
		t.Fatal(err)
	}

	idx.Filter(1, 50)

	entry, err := idx.GetEntryHeads(e)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Size() != 0 {
		t.Fatal("far-from-head barcode survived")
	}
}

func TestSimpleFilterByRangeStart(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewSimpleIndex(g)
	idx.InitialFill()

	if err := idx.Ingest(e, 0, 10, go10x.Range{Start: 60, End: 70}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Ingest(e, 1, 10, go10x.Range{Start: 0, End: 10}); err != nil {
		t.Fatal(err)
	}

	idx.Filter(1, 50)

	entry, err := idx.GetEntryHeads(e)
	if err != nil {
		t.Fatal(err)
	}
	if entry.HasBarcode(0) || !entry.HasBarcode(1) {
		t.Fatalf("filter kept the wrong barcodes, size %d", entry.Size())
	}
}

func TestIngestUnknownEdge(t *testing.T) {
	g := go10x.NewConjGraph()
	g.AddEdgePair(100)

	idx := NewSimpleIndex(g)
	// No InitialFill: every edge is unknown.
	err := idx.Ingest(go10x.EdgeID(1), 0, 1, go10x.Range{Start: 0, End: 10})
	if !errors.Is(err, go10x.ErrEdgeNotIndexed) {
		t.Fatalf("want ErrEdgeNotIndexed, got %v", err)
	}
}

func TestFrameEntryRoundTrip(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	ingest := []struct {
		code  go10x.BarcodeID
		count uint64
		r     go10x.Range
	}{
		{0, 3, go10x.Range{Start: 5, End: 25}},
		{0, 2, go10x.Range{Start: 40, End: 55}},
		{7, 11, go10x.Range{Start: 0, End: 100}},
		{3, 1, go10x.Range{Start: 90, End: 100}},
	}
	for _, in := range ingest {
		if err := idx.Ingest(e, in.code, in.count, in.r); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := idx.WriteEntry(&buf, e); err != nil {
		t.Fatal(err)
	}

	other := NewFrameIndex(g, 10)
	other.InitialFill()
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	if err := other.ReadEntry(sc, e); err != nil {
		t.Fatal(err)
	}

	orig, _ := idx.GetEntryHeads(e)
	loaded, _ := other.GetEntryHeads(e)
	if !orig.equalsProjection(loaded) {
		t.Fatal("round trip lost information")
	}
}

func TestSimpleEntryRoundTrip(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	idx := NewSimpleIndex(g)
	idx.InitialFill()

	if err := idx.Ingest(e, 2, 4, go10x.Range{Start: 10, End: 30}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Ingest(e, 5, 9, go10x.Range{Start: 0, End: 100}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := idx.WriteEntry(&buf, e); err != nil {
		t.Fatal(err)
	}

	other := NewSimpleIndex(g)
	other.InitialFill()
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	if err := other.ReadEntry(sc, e); err != nil {
		t.Fatal(err)
	}

	loaded, _ := other.GetEntryHeads(e)
	info, found := loaded.Info(2)
	if !found || info.Count() != 4 || info.Range() != (go10x.Range{Start: 10, End: 30}) {
		t.Fatalf("barcode 2 round trip: %+v, %v", info, found)
	}
	info, found = loaded.Info(5)
	if !found || info.Count() != 9 || info.Range() != (go10x.Range{Start: 0, End: 100}) {
		t.Fatalf("barcode 5 round trip: %+v, %v", info, found)
	}
}

func TestDeserializeMalformed(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(100)

	malformed := []string{
		"1\n1\n",                // truncated entry line
		"1\n2\n0 5 00000000000", // one of two announced lines, then EOF
		"1\n1\n0 -5 00000000000\n",
		"1\n1\n0 5 000000000x0\n",
		"2\n1\n0 5 00000000001\n", // wrong edge id
	}
	for _, text := range malformed {
		fresh := NewFrameIndex(g, 10)
		fresh.InitialFill()
		sc := bufio.NewScanner(bytes.NewReader([]byte(text)))
		err := fresh.ReadEntry(sc, e)
		if !errors.Is(err, go10x.ErrMalformedSerialization) {
			t.Fatalf("input %q: want ErrMalformedSerialization, got %v", text, err)
		}
	}
}

func TestEntrySetArithmetic(t *testing.T) {
	g := go10x.NewConjGraph()
	e1, _ := g.AddEdgePair(100)
	e2, _ := g.AddEdgePair(100)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	for _, code := range []go10x.BarcodeID{0, 1, 2} {
		if err := idx.Ingest(e1, code, 1, go10x.Range{Start: 0, End: 10}); err != nil {
			t.Fatal(err)
		}
	}
	for _, code := range []go10x.BarcodeID{1, 2, 3, 4} {
		if err := idx.Ingest(e2, code, 1, go10x.Range{Start: 0, End: 10}); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := idx.GetEntryHeads(e1)
	b, _ := idx.GetEntryHeads(e2)
	if got := a.IntersectionSize(b); got != 2 {
		t.Fatalf("intersection %d, want 2", got)
	}
	if got := b.IntersectionSize(a); got != 2 {
		t.Fatalf("intersection not symmetric: %d", got)
	}
	if got := a.UnionSize(b); got != 5 {
		t.Fatalf("union %d, want 5", got)
	}
}

func TestExtractorHeadWindow(t *testing.T) {
	g := go10x.NewConjGraph()
	e, _ := g.AddEdgePair(200)

	idx := NewFrameIndex(g, 10)
	idx.InitialFill()

	// Near the head, abundant.
	if err := idx.Ingest(e, 0, 8, go10x.Range{Start: 0, End: 20}); err != nil {
		t.Fatal(err)
	}
	// Near the head, sparse.
	if err := idx.Ingest(e, 1, 1, go10x.Range{Start: 0, End: 20}); err != nil {
		t.Fatal(err)
	}
	// Abundant but deep into the edge.
	if err := idx.Ingest(e, 2, 8, go10x.Range{Start: 150, End: 170}); err != nil {
		t.Fatal(err)
	}

	ex := NewFrameInfoExtractor(idx)
	codes, err := ex.BarcodesFromHead(e, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 1 || codes[0] != 0 {
		t.Fatalf("head barcodes %v, want [0]", codes)
	}

	counts, err := ex.BarcodesAndCountsFromHead(e, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Code != 0 || counts[0].Reads != 8 {
		t.Fatalf("head counts %v", counts)
	}

	if _, err := ex.BarcodesFromHead(go10x.EdgeID(999), 1, 100); !errors.Is(err, go10x.ErrEdgeNotIndexed) {
		t.Fatalf("want ErrEdgeNotIndexed, got %v", err)
	}
}

func TestLibraryManifest(t *testing.T) {
	text := `
BC01 : "bc01_1.fastq" , "bc01_2.fastq"
BC02 : "bc02_1.fastq" , "bc02_2.fastq"
`
	libs, err := ParseLibraryManifest(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(libs) != 2 {
		t.Fatalf("parsed %d libraries, want 2", len(libs))
	}
	if libs[0].Barcode != "BC01" || libs[0].Left != "bc01_1.fastq" || libs[0].Right != "bc01_2.fastq" {
		t.Fatalf("library 0: %+v", libs[0])
	}

	if _, err := ParseLibraryManifest(`BC01 "left" "right"`); err == nil {
		t.Fatal("malformed manifest accepted")
	}
}
