package scaffold

import (
	"sync"

	"github.com/plan-systems/klog"
)

// VertexIndex maps scaffold vertices to their extracted barcode entries.
// After Build returns, the index holds no reference to the vertex container
// and is read-only.
type VertexIndex struct {
	mu      sync.Mutex
	entries map[Vertex]*SimpleVertexEntry
}

func NewVertexIndex() *VertexIndex {
	return &VertexIndex{
		entries: make(map[Vertex]*SimpleVertexEntry),
	}
}

func (idx *VertexIndex) Size() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}

// Entry returns the entry extracted for the given vertex.
func (idx *VertexIndex) Entry(v Vertex) (*SimpleVertexEntry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	entry, found := idx.entries[v]
	return entry, found
}

func (idx *VertexIndex) insert(v Vertex, entry *SimpleVertexEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[v] = entry
}

// VertexIndexBuilder extracts an entry per vertex and fills a VertexIndex.
type VertexIndexBuilder struct {
	extractor *EntryExtractor
}

func NewVertexIndexBuilder(extractor *EntryExtractor) *VertexIndexBuilder {
	return &VertexIndexBuilder{
		extractor: extractor,
	}
}

// Build extracts entries for all given vertices, partitioned across at most
// maxThreads workers.  A later insertion for the same vertex replaces the
// earlier one.  The first extraction error aborts the build.
func (b *VertexIndexBuilder) Build(vertices []Vertex, maxThreads int) (*VertexIndex, error) {
	if maxThreads < 1 {
		maxThreads = 1
	}
	if maxThreads > len(vertices) {
		maxThreads = len(vertices)
	}

	idx := NewVertexIndex()
	if len(vertices) == 0 {
		return idx, nil
	}

	klog.V(2).Infof("extracting entries for %d scaffold vertices on %d workers", len(vertices), maxThreads)

	inlet := make(chan Vertex)
	errOnce := sync.Once{}
	var buildErr error

	var wg sync.WaitGroup
	for w := 0; w < maxThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range inlet {
				entry, err := b.extractor.ExtractEntry(v)
				if err != nil {
					errOnce.Do(func() {
						buildErr = err
					})
					continue
				}
				idx.insert(v, entry)
			}
		}()
	}

	for _, v := range vertices {
		inlet <- v
	}
	close(inlet)
	wg.Wait()

	if buildErr != nil {
		return nil, buildErr
	}
	klog.V(2).Infof("scaffold vertex index holds %d entries", idx.Size())
	return idx, nil
}
