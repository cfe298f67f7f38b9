package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcan/reposcan/engine"
	"github.com/reposcan/reposcan/oid"
	"github.com/reposcan/reposcan/store"
)

func analyze(t *testing.T, b *store.Builder) engine.Report {
	t.Helper()
	report, err := engine.NewAnalyzer(b.Build()).Analyze()
	require.NoError(t, err)
	return report
}

func TestAnalyzeEmptyRepository(t *testing.T) {
	report := analyze(t, store.NewBuilder())

	assert.Zero(t, report.RepositorySize.Commits.Count)
	assert.Zero(t, report.RepositorySize.Trees.Count)
	assert.Zero(t, report.RepositorySize.Blobs.Count)
	assert.Zero(t, report.RepositorySize.AnnotatedTags.Count)
	assert.Zero(t, report.RepositorySize.References.Count)
	assert.Zero(t, report.HistoryStructure.MaxDepth)
	assert.Zero(t, report.HistoryStructure.MaxTagDepth)
	assert.Equal(t, engine.TreeCumulativeStats{}, report.BiggestCheckouts)
}

func TestAnalyzeSingleCommitEmptyTree(t *testing.T) {
	b := store.NewBuilder()
	emptyTree := b.AddAutoTree(4, nil)
	b.AddAutoCommit(120, emptyTree, nil)
	b.AddReference("refs/heads/main")

	report := analyze(t, b)

	assert.EqualValues(t, 1, report.RepositorySize.Commits.Count)
	assert.EqualValues(t, 120, report.RepositorySize.Commits.Size)
	assert.Zero(t, report.RepositorySize.Trees.Count)
	assert.Zero(t, report.RepositorySize.Trees.Size)
	assert.Zero(t, report.RepositorySize.Trees.Entries)
	assert.Zero(t, report.RepositorySize.Blobs.Count)
	assert.Zero(t, report.RepositorySize.AnnotatedTags.Count)
	assert.EqualValues(t, 1, report.RepositorySize.References.Count)
	assert.EqualValues(t, 120, report.BiggestObjects.Commits.MaxSize)
	assert.Zero(t, report.BiggestObjects.Commits.MaxParents)
	assert.EqualValues(t, 1, report.HistoryStructure.MaxDepth)
	assert.Zero(t, report.HistoryStructure.MaxTagDepth)
	assert.Equal(t, engine.TreeCumulativeStats{}, report.BiggestCheckouts)
}

// TestAnalyzeLinearHistoryWithSingleFile builds five commits chained
// parent-to-child, each with a root tree containing one distinct
// 10-byte blob named "f".
func TestAnalyzeLinearHistoryWithSingleFile(t *testing.T) {
	b := store.NewBuilder()

	var parent oid.OID
	var haveParent bool

	for i := 0; i < 5; i++ {
		blob := b.AddAutoBlob(10)
		tree := b.AddAutoTree(30, []store.TreeEntry{
			{Name: "f", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: blob},
		})
		var parents []oid.OID
		if haveParent {
			parents = []oid.OID{parent}
		}
		parent = b.AddAutoCommit(80, tree, parents)
		haveParent = true
	}

	report := analyze(t, b)

	assert.EqualValues(t, 5, report.RepositorySize.Commits.Count)
	assert.EqualValues(t, 5, report.RepositorySize.Trees.Count)
	assert.EqualValues(t, 5, report.RepositorySize.Blobs.Count)
	assert.EqualValues(t, 5, report.HistoryStructure.MaxDepth)
	assert.Equal(t, engine.TreeCumulativeStats{
		NumDirectories: 1,
		MaxPathDepth:   1,
		MaxPathLength:  1,
		NumFiles:       1,
		TotalFileSize:  10,
		NumSymlinks:    0,
		NumSubmodules:  0,
	}, report.BiggestCheckouts)
}

// TestAnalyzeDiamondHistory builds root R, children A and B both
// parented on R, and merge M parented on both A and B.
func TestAnalyzeDiamondHistory(t *testing.T) {
	b := store.NewBuilder()
	tree := b.AddAutoTree(4, nil)

	root := b.AddAutoCommit(80, tree, nil)
	a := b.AddAutoCommit(80, tree, []oid.OID{root})
	bb := b.AddAutoCommit(80, tree, []oid.OID{root})
	b.AddAutoCommit(80, tree, []oid.OID{a, bb})

	report := analyze(t, b)

	assert.EqualValues(t, 4, report.RepositorySize.Commits.Count)
	assert.EqualValues(t, 3, report.HistoryStructure.MaxDepth)
	assert.EqualValues(t, 2, report.BiggestObjects.Commits.MaxParents)
}

// TestAnalyzeTagChain builds t3 -> t2 -> t1 -> C0.
func TestAnalyzeTagChain(t *testing.T) {
	b := store.NewBuilder()
	tree := b.AddAutoTree(4, nil)
	c0 := b.AddAutoCommit(80, tree, nil)

	t1 := b.AddAutoTag(40, c0, store.VariantCommit)
	t2 := b.AddAutoTag(40, t1, store.VariantTag)
	b.AddAutoTag(40, t2, store.VariantTag)

	report := analyze(t, b)

	assert.EqualValues(t, 3, report.RepositorySize.AnnotatedTags.Count)
	assert.EqualValues(t, 3, report.HistoryStructure.MaxTagDepth)
}

// TestAnalyzeSubmoduleAndSymlinkTree mirrors the checkout-shape
// scenario: a root tree with a regular file, a symlink, a submodule,
// and a one-entry subdirectory.
func TestAnalyzeSubmoduleAndSymlinkTree(t *testing.T) {
	b := store.NewBuilder()
	fileBlob := b.AddAutoBlob(100)
	linkBlob := b.AddAutoBlob(5)
	subCommit := b.AddAutoCommit(80, b.AddAutoTree(4, nil), nil)
	innerBlob := b.AddAutoBlob(50)
	innerTree := b.AddAutoTree(20, []store.TreeEntry{
		{Name: "file", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: innerBlob},
	})
	rootTree := b.AddAutoTree(60, []store.TreeEntry{
		{Name: "file.txt", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: fileBlob},
		{Name: "link", Filemode: 0120000, TargetVariant: store.VariantBlob, TargetOID: linkBlob},
		{Name: "sub", Filemode: 0160000, TargetVariant: store.VariantCommit, TargetOID: subCommit},
		{Name: "dir", Filemode: 0040000, TargetVariant: store.VariantTree, TargetOID: innerTree},
	})
	b.AddAutoCommit(80, rootTree, nil)

	report := analyze(t, b)

	assert.Equal(t, engine.TreeCumulativeStats{
		NumDirectories: 2,
		MaxPathDepth:   2,
		MaxPathLength:  8,
		NumFiles:       2,
		TotalFileSize:  150,
		NumSymlinks:    1,
		NumSubmodules:  1,
	}, report.BiggestCheckouts)
}
