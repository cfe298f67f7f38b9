package engine

import (
	"github.com/reposcan/reposcan/counts"
	"github.com/reposcan/reposcan/oid"
)

// treePartialStats holds the per-tree shape facts that are knowable
// the moment a tree object is parsed, without looking at any of its
// sub-trees: how many of its immediate entries are submodules,
// symlinks, or regular files, and the longest name among its immediate
// file entries.
type treePartialStats struct {
	NumSubmodules counts.Count32
	NumSymlinks   counts.Count32
	NumFiles      counts.Count32
	MaxPathLength counts.Count32
}

// subTreeEntry is a sub-tree reference recorded against its parent,
// kept around so the memoized roll-up can revisit it without
// re-reading the object store.
type subTreeEntry struct {
	OID     oid.OID
	NameLen counts.Count32
}

// TreeCumulativeStats is the working-tree projection of a tree: rolled
// up recursively across every sub-tree, it describes what a checkout
// rooted at that tree would look like. The same shape is used both per
// commit root and for the repository-wide biggestCheckouts, which is
// the component-wise maximum across every commit's root tree.
type TreeCumulativeStats struct {
	NumDirectories counts.Count32 `json:"numDirectories"`
	MaxPathDepth   counts.Count32 `json:"maxPathDepth"`
	MaxPathLength  counts.Count32 `json:"maxPathLength"`
	NumFiles       counts.Count32 `json:"numFiles"`
	TotalFileSize  counts.Count64 `json:"totalFileSize"`
	NumSymlinks    counts.Count32 `json:"numSymlinks"`
	NumSubmodules  counts.Count32 `json:"numSubmodules"`
}

// mergeMax folds o into s by taking the component-wise maximum of each
// field, used to roll many commits' checkout stats up into a single
// repository-wide biggestCheckouts value.
func (s *TreeCumulativeStats) mergeMax(o TreeCumulativeStats) {
	s.NumDirectories.AdjustMaxIfPossible(o.NumDirectories)
	s.MaxPathDepth.AdjustMaxIfPossible(o.MaxPathDepth)
	s.MaxPathLength.AdjustMaxIfPossible(o.MaxPathLength)
	s.NumFiles.AdjustMaxIfPossible(o.NumFiles)
	s.TotalFileSize.AdjustMaxIfPossible(o.TotalFileSize)
	s.NumSymlinks.AdjustMaxIfPossible(o.NumSymlinks)
	s.NumSubmodules.AdjustMaxIfPossible(o.NumSubmodules)
}
