package engine

import (
	"sync"

	"github.com/reposcan/reposcan/counts"
	"github.com/reposcan/reposcan/oid"
	"github.com/reposcan/reposcan/store"
)

// treeRecord is a tree's accumulator-phase facts plus, once the
// aggregation phase has visited it, its memoized roll-up. counted is
// false for the empty tree: it is still recorded (so that a commit
// whose root is the empty tree resolves to a cumulative value instead
// of erroring) but excluded from repositorySize.trees and
// biggestObjects.trees, per invariant 2.
type treeRecord struct {
	counted bool
	size    uint64
	entries counts.Count32

	partial         treePartialStats
	blobChildren    []oid.OID
	subTreeChildren []subTreeEntry

	rolledUp   bool
	cumulative TreeCumulativeStats
}

// TagNode is a tag's accumulator-phase facts plus its memoized
// resolved chain depth. depth 0 means unresolved.
type TagNode struct {
	Target        oid.OID
	TargetVariant store.Variant
	Depth         counts.Count32
}

// accumulator is the ObjectAccumulator of the design: four
// independently-locked category tables, each mutated by exactly one
// work-handler during the concurrent phase and then read, lock-free,
// during the aggregation phase that follows pool drain. That phase
// runs its steps concurrently, but each step is single-threaded and
// mutates only the records it alone reads (trees, tags, or the DAG).
type accumulator struct {
	commitsMu  sync.Mutex
	commits    map[oid.OID]oid.OID // commit OID -> root tree OID
	commitSize counts.Count64
	maxSize    counts.Count64
	maxParents counts.Count32
	dag        *commitDag

	treesMu      sync.Mutex
	trees        map[oid.OID]*treeRecord
	treeSize     counts.Count64
	treeEntries  counts.Count64
	maxEntries   counts.Count32

	blobsMu    sync.Mutex
	blobs      map[oid.OID]uint64
	blobSize   counts.Count64
	maxBlobSize counts.Count64

	tagsMu sync.Mutex
	tags   map[oid.OID]*TagNode
}

func newAccumulator() *accumulator {
	return &accumulator{
		commits: make(map[oid.OID]oid.OID),
		dag:     newCommitDag(),
		trees:   make(map[oid.OID]*treeRecord),
		blobs:   make(map[oid.OID]uint64),
		tags:    make(map[oid.OID]*TagNode),
	}
}

// handleCommit is the Commit work-handler of §4.3.
func (a *accumulator) handleCommit(id oid.OID, adapter store.ObjectStoreAdapter) error {
	obj, err := adapter.Lookup(id)
	if err != nil {
		return &AnalysisError{Kind: KindLookupFailed, OID: id, Err: err}
	}

	parentCount := counts.NewCount32(uint64(len(obj.Commit.Parents)))

	a.commitsMu.Lock()
	defer a.commitsMu.Unlock()

	if _, exists := a.commits[id]; exists {
		return nil
	}
	a.commits[id] = obj.Commit.Tree

	a.commitSize.Increment(counts.NewCount64(obj.Size))
	a.maxSize.AdjustMaxIfPossible(counts.NewCount64(obj.Size))
	a.maxParents.AdjustMaxIfPossible(parentCount)
	a.dag.addNode(id, obj.Commit.Parents, parentCount)
	return nil
}

// handleTree is the Tree work-handler of §4.3.
func (a *accumulator) handleTree(id oid.OID, adapter store.ObjectStoreAdapter) error {
	obj, err := adapter.Lookup(id)
	if err != nil {
		return &AnalysisError{Kind: KindLookupFailed, OID: id, Err: err}
	}

	if len(obj.Tree.Entries) == 0 {
		a.treesMu.Lock()
		defer a.treesMu.Unlock()
		if _, exists := a.trees[id]; !exists {
			// Still recorded, so rollUp(id) resolves, but never
			// counted: invariant 2 excludes it from every tree sum.
			a.trees[id] = &treeRecord{rolledUp: true}
		}
		return nil
	}

	rec := &treeRecord{entries: counts.NewCount32(uint64(len(obj.Tree.Entries)))}
	for _, e := range obj.Tree.Entries {
		nameLen := counts.NewCount32(uint64(len(e.Name)))
		switch {
		case e.Filemode.IsSubmodule():
			rec.partial.NumSubmodules.Increment(1)
		case e.Filemode.IsSymlink():
			rec.partial.NumSymlinks.Increment(1)
		case e.Filemode.IsTree():
			rec.subTreeChildren = append(rec.subTreeChildren, subTreeEntry{OID: e.TargetOID, NameLen: nameLen})
		default:
			rec.partial.NumFiles.Increment(1)
			rec.partial.MaxPathLength.AdjustMaxIfPossible(nameLen)
			rec.blobChildren = append(rec.blobChildren, e.TargetOID)
		}
	}

	a.treesMu.Lock()
	defer a.treesMu.Unlock()
	if _, exists := a.trees[id]; exists {
		return nil
	}
	rec.counted = true
	rec.size = obj.Size
	a.trees[id] = rec
	a.treeSize.Increment(counts.NewCount64(obj.Size))
	a.treeEntries.Increment(counts.NewCount64(rec.entries.ToUint64()))
	a.maxEntries.AdjustMaxIfPossible(rec.entries)
	return nil
}

// handleBlob is the Blob work-handler of §4.3.
func (a *accumulator) handleBlob(id oid.OID, adapter store.ObjectStoreAdapter) error {
	obj, err := adapter.Lookup(id)
	if err != nil {
		return &AnalysisError{Kind: KindLookupFailed, OID: id, Err: err}
	}

	a.blobsMu.Lock()
	defer a.blobsMu.Unlock()
	if _, exists := a.blobs[id]; exists {
		return nil
	}
	a.blobs[id] = obj.Size
	a.blobSize.Increment(counts.NewCount64(obj.Size))
	a.maxBlobSize.AdjustMaxIfPossible(counts.NewCount64(obj.Size))
	return nil
}

// handleTag is the Tag work-handler of §4.3. Overwrite on re-insertion
// is permitted: the object database guarantees a given OID always
// denotes the same tag, so a repeated insert is equivalent, not racy.
func (a *accumulator) handleTag(id oid.OID, adapter store.ObjectStoreAdapter) error {
	obj, err := adapter.Lookup(id)
	if err != nil {
		return &AnalysisError{Kind: KindLookupFailed, OID: id, Err: err}
	}

	a.tagsMu.Lock()
	defer a.tagsMu.Unlock()
	a.tags[id] = &TagNode{Target: obj.Tag.Target, TargetVariant: obj.Tag.TargetVariant}
	return nil
}

// rollUp is the TreeAggregator of §4.5, run single-threaded after the
// pool has drained. It mutates treeRecord.cumulative/rolledUp in
// place, memoizing the result so that trees shared by several commits
// (or reached by several parents) are visited at most once.
func (a *accumulator) rollUp(id oid.OID) (TreeCumulativeStats, error) {
	rec, ok := a.trees[id]
	if !ok {
		return TreeCumulativeStats{}, &AnalysisError{Kind: KindInternalMissing, OID: id}
	}
	if rec.rolledUp {
		return rec.cumulative, nil
	}

	stats := TreeCumulativeStats{
		NumDirectories: counts.NewCount32(1),
		MaxPathDepth:   counts.NewCount32(1),
		MaxPathLength:  rec.partial.MaxPathLength,
		NumFiles:       rec.partial.NumFiles,
		NumSymlinks:    rec.partial.NumSymlinks,
		NumSubmodules:  rec.partial.NumSubmodules,
	}

	for _, b := range rec.blobChildren {
		size, ok := a.blobs[b]
		if !ok {
			return TreeCumulativeStats{}, &AnalysisError{Kind: KindInternalMissing, OID: b}
		}
		stats.TotalFileSize.Increment(counts.NewCount64(size))
	}

	for _, sub := range rec.subTreeChildren {
		child, err := a.rollUp(sub.OID)
		if err != nil {
			return TreeCumulativeStats{}, err
		}
		stats.NumDirectories.Increment(child.NumDirectories)
		stats.MaxPathDepth.AdjustMaxIfPossible(counts.NewCount32(child.MaxPathDepth.ToUint64() + 1))
		stats.MaxPathLength.AdjustMaxIfPossible(counts.NewCount32(sub.NameLen.ToUint64() + 1 + child.MaxPathLength.ToUint64()))
		stats.NumFiles.Increment(child.NumFiles)
		stats.TotalFileSize.Increment(child.TotalFileSize)
		stats.NumSymlinks.Increment(child.NumSymlinks)
		stats.NumSubmodules.Increment(child.NumSubmodules)
	}

	rec.cumulative = stats
	rec.rolledUp = true
	return stats, nil
}

// computeBiggestCheckouts is the repository-wide fold of §4.5: the
// component-wise maximum of rollUp over every commit's root tree.
func (a *accumulator) computeBiggestCheckouts() (TreeCumulativeStats, error) {
	var biggest TreeCumulativeStats
	for _, rootTree := range a.commits {
		stats, err := a.rollUp(rootTree)
		if err != nil {
			return TreeCumulativeStats{}, err
		}
		biggest.mergeMax(stats)
	}
	return biggest, nil
}

// resolveTagDepth is the TagDepthResolver of §4.6, run single-threaded
// after the pool has drained.
func (a *accumulator) resolveTagDepth(id oid.OID) (counts.Count32, error) {
	node, ok := a.tags[id]
	if !ok {
		return 0, &AnalysisError{Kind: KindInternalMissing, OID: id}
	}
	if node.Depth != 0 {
		return node.Depth, nil
	}

	node.Depth = counts.NewCount32(1)
	if node.TargetVariant == store.VariantTag {
		targetDepth, err := a.resolveTagDepth(node.Target)
		if err != nil {
			return 0, err
		}
		node.Depth.Increment(targetDepth)
	}
	return node.Depth, nil
}

// computeMaxTagDepth resolves every tag and returns the maximum
// depth seen.
func (a *accumulator) computeMaxTagDepth() (counts.Count32, error) {
	var max counts.Count32
	for id := range a.tags {
		depth, err := a.resolveTagDepth(id)
		if err != nil {
			return 0, err
		}
		max.AdjustMaxIfPossible(depth)
	}
	return max, nil
}
