package scaffold

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/10x-systems/go10x/go10x"
)

// PathScaffolder merges chains of univocally connected paths into single
// paths with explicit gaps.
type PathScaffolder struct {
	g go10x.Graph
}

func NewPathScaffolder(g go10x.Graph) *PathScaffolder {
	return &PathScaffolder{
		g: g,
	}
}

// MergeUnivocalEdges extends each chain of scaffold edges: for every chain
// start, the downstream paths are appended with their gaps and then cleared.
// Conjugate chains are processed symmetrically, so every pair of twin paths
// is modified exactly once.
//
// All structural checks run before any path is touched: a duplicate start
// fails with ErrAmbiguousMerge, a connection whose conjugate is missing
// fails with ErrBrokenConjugateSymmetry, and in both cases the paths are
// left untouched.
func (ps *PathScaffolder) MergeUnivocalEdges(edges []ScaffoldEdge) error {
	merges := make(map[Vertex]Vertex, len(edges))
	distances := make(map[Vertex]int, len(edges))

	for _, e := range edges {
		if _, dup := merges[e.Start]; dup {
			return errors.Wrapf(go10x.ErrAmbiguousMerge, "start %v", e.Start)
		}
		merges[e.Start] = e.End
		distances[e.Start] = e.Length
	}

	for _, e := range edges {
		conjStart := e.End.Conjugate(ps.g)
		conjEnd, found := merges[conjStart]
		if !found || conjEnd != e.Start.Conjugate(ps.g) {
			return errors.Wrapf(go10x.ErrBrokenConjugateSymmetry, "connection %v -> %v", e.Start, e.End)
		}
	}

	starts := ps.findChainStarts(edges, merges)
	klog.V(2).Infof("merging %d connections along %d chains", len(merges), len(starts))

	for _, start := range starts {
		ps.extendChain(start, merges, distances)
	}

	klog.Infof("merged %d univocal connections", len(merges))
	return nil
}

// findChainStarts walks every chain backwards via conjugates until it leaves
// the merge map.  The used set guarantees each chain and its conjugate are
// discovered exactly once.
func (ps *PathScaffolder) findChainStarts(edges []ScaffoldEdge, merges map[Vertex]Vertex) []Vertex {
	used := make(map[Vertex]bool, 2*len(merges))
	var starts []Vertex

	for _, e := range edges {
		s := e.Start
		if used[s] {
			continue
		}
		used[s] = true
		used[s.Conjugate(ps.g)] = true

		cur := s
		isStart := true
		for {
			conjSuccessor, found := merges[cur.Conjugate(ps.g)]
			if !found {
				break
			}
			if used[conjSuccessor] {
				isStart = false
				break
			}
			cur = conjSuccessor.Conjugate(ps.g)
			used[cur] = true
			used[cur.Conjugate(ps.g)] = true
		}

		if isStart {
			starts = append(starts, cur)
		}
	}
	return starts
}

// extendChain walks forward from a start, absorbing each successor path and
// clearing it.  Cleared conjugates are handled when the conjugate chain is
// walked.
func (ps *PathScaffolder) extendChain(start Vertex, merges map[Vertex]Vertex, distances map[Vertex]int) {
	startPath, hasPath := start.Path()
	if !hasPath {
		klog.Warningf("chain start %v carries no path", start)
		return
	}
	if startPath.Empty() {
		klog.Warningf("chain start %v has an empty path", start)
		return
	}

	cur := start
	for {
		next, found := merges[cur]
		if !found {
			return
		}
		nextPath, hasPath := next.Path()
		if !hasPath {
			klog.Warningf("chain vertex %v carries no path", next)
			return
		}

		startPath.PushBack(nextPath, distances[cur])
		nextPath.Clear()
		cur = next
	}
}
