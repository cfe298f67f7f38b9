package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/reposcan/reposcan/counts"
)

// Report is the Analyzer's sole output: an immutable snapshot of the
// four named groups described in the external-interfaces contract,
// plus a RunID correlating it with the log lines emitted while it was
// produced. Every numeric field is populated, never omitted, even for
// an empty repository.
type Report struct {
	RunID            uuid.UUID        `json:"runId"`
	RepositorySize   RepositorySize   `json:"repositorySize"`
	BiggestObjects   BiggestObjects   `json:"biggestObjects"`
	HistoryStructure HistoryStructure `json:"historyStructure"`
	BiggestCheckouts TreeCumulativeStats `json:"biggestCheckouts"`
}

type RepositorySize struct {
	Commits       CountSize     `json:"commits"`
	Trees         TreeSize      `json:"trees"`
	Blobs         CountSize     `json:"blobs"`
	AnnotatedTags Count         `json:"annotatedTags"`
	References    Count         `json:"references"`
}

type CountSize struct {
	Count counts.Count32 `json:"count"`
	Size  counts.Count64 `json:"size"`
}

type TreeSize struct {
	Count   counts.Count32 `json:"count"`
	Size    counts.Count64 `json:"size"`
	Entries counts.Count64 `json:"entries"`
}

type Count struct {
	Count counts.Count32 `json:"count"`
}

type BiggestObjects struct {
	Commits CommitMax `json:"commits"`
	Trees   TreeMax   `json:"trees"`
	Blobs   BlobMax   `json:"blobs"`
}

type CommitMax struct {
	MaxSize    counts.Count64 `json:"maxSize"`
	MaxParents counts.Count32 `json:"maxParents"`
}

type TreeMax struct {
	MaxEntries counts.Count32 `json:"maxEntries"`
}

type BlobMax struct {
	MaxSize counts.Count64 `json:"maxSize"`
}

type HistoryStructure struct {
	MaxDepth    counts.Count32 `json:"maxDepth"`
	MaxTagDepth counts.Count32 `json:"maxTagDepth"`
}

// String renders a short human summary of the report, in the spirit
// of a du/df-style one-screen overview rather than the full JSON dump.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunID)
	fmt.Fprintf(&b, "commits: %s (%s)\n",
		humanize.Comma(int64(r.RepositorySize.Commits.Count)),
		humanize.Bytes(r.RepositorySize.Commits.Size.ToUint64()))
	fmt.Fprintf(&b, "trees:   %s (%s, %s entries)\n",
		humanize.Comma(int64(r.RepositorySize.Trees.Count)),
		humanize.Bytes(r.RepositorySize.Trees.Size.ToUint64()),
		humanize.Comma(int64(r.RepositorySize.Trees.Entries)))
	fmt.Fprintf(&b, "blobs:   %s (%s)\n",
		humanize.Comma(int64(r.RepositorySize.Blobs.Count)),
		humanize.Bytes(r.RepositorySize.Blobs.Size.ToUint64()))
	fmt.Fprintf(&b, "tags:    %s\n", humanize.Comma(int64(r.RepositorySize.AnnotatedTags.Count)))
	fmt.Fprintf(&b, "refs:    %s\n", humanize.Comma(int64(r.RepositorySize.References.Count)))
	fmt.Fprintf(&b, "max history depth: %d, max tag depth: %d\n",
		r.HistoryStructure.MaxDepth, r.HistoryStructure.MaxTagDepth)
	fmt.Fprintf(&b, "biggest checkout: %s files, %s, %d directories deep\n",
		humanize.Comma(int64(r.BiggestCheckouts.NumFiles)),
		humanize.Bytes(r.BiggestCheckouts.TotalFileSize.ToUint64()),
		r.BiggestCheckouts.MaxPathDepth)
	return b.String()
}
