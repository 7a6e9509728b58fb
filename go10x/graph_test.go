package go10x

import (
	"testing"
)

func TestConjGraphInvolution(t *testing.T) {
	g := NewConjGraph()
	fwd, rev := g.AddEdgePair(120)

	if g.Conjugate(fwd) != rev || g.Conjugate(rev) != fwd {
		t.Fatal("conjugate is not an involution over the pair")
	}
	if g.Conjugate(fwd) == fwd {
		t.Fatal("edge conjugate to itself")
	}
	if g.Length(fwd) != 120 || g.Length(rev) != 120 {
		t.Fatal("twin lengths differ")
	}
	if len(g.Edges()) != 2 {
		t.Fatalf("edge count %d, want 2", len(g.Edges()))
	}
	if g.IntID(fwd) == g.IntID(rev) {
		t.Fatal("twin ids collide")
	}
}

func TestAlignmentStream(t *testing.T) {
	e := EdgeID(1)
	stream := StreamAlignments(
		Alignment{Edge: e, Barcode: "AAAA", Count: 1, Read: Range{Start: 0, End: 10}},
		Alignment{Edge: e, Barcode: "CCCC", Count: 2, Read: Range{Start: 10, End: 20}},
	)

	var got []Alignment
	for a := range stream.Outlet {
		got = append(got, a)
	}
	if len(got) != 2 {
		t.Fatalf("drained %d alignments, want 2", len(got))
	}
	if got[0].Barcode != "AAAA" || got[1].Count != 2 {
		t.Fatalf("alignments out of order: %+v", got)
	}
}
