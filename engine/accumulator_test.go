package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcan/reposcan/oid"
	"github.com/reposcan/reposcan/store"
)

func TestHandleTreeIdempotent(t *testing.T) {
	b := store.NewBuilder()
	blob := b.AddAutoBlob(10)
	tree := b.AddAutoTree(20, []store.TreeEntry{
		{Name: "f", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: blob},
	})
	mem := b.Build()

	acc := newAccumulator()
	require.NoError(t, acc.handleBlob(blob, mem))
	require.NoError(t, acc.handleTree(tree, mem))
	require.NoError(t, acc.handleTree(tree, mem))

	assert.Len(t, acc.trees, 1)
	assert.EqualValues(t, 1, acc.treeEntries)
}

func TestRollUpMemoizesSharedSubtree(t *testing.T) {
	b := store.NewBuilder()
	blob := b.AddAutoBlob(10)
	shared := b.AddAutoTree(20, []store.TreeEntry{
		{Name: "f", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: blob},
	})
	rootA := b.AddAutoTree(20, []store.TreeEntry{
		{Name: "shared", Filemode: 0040000, TargetVariant: store.VariantTree, TargetOID: shared},
	})
	rootB := b.AddAutoTree(20, []store.TreeEntry{
		{Name: "shared2", Filemode: 0040000, TargetVariant: store.VariantTree, TargetOID: shared},
	})
	mem := b.Build()

	acc := newAccumulator()
	require.NoError(t, acc.handleBlob(blob, mem))
	require.NoError(t, acc.handleTree(shared, mem))
	require.NoError(t, acc.handleTree(rootA, mem))
	require.NoError(t, acc.handleTree(rootB, mem))

	statsA, err := acc.rollUp(rootA)
	require.NoError(t, err)
	statsB, err := acc.rollUp(rootB)
	require.NoError(t, err)

	assert.EqualValues(t, 10, statsA.TotalFileSize)
	assert.EqualValues(t, 10, statsB.TotalFileSize)
	assert.True(t, acc.trees[shared].rolledUp)
}

func TestRollUpMissingTreeIsInternalMissing(t *testing.T) {
	acc := newAccumulator()
	_, err := acc.rollUp(oid.OID{1})
	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, KindInternalMissing, analysisErr.Kind)
}

func TestResolveTagDepthChain(t *testing.T) {
	b := store.NewBuilder()
	tree := b.AddAutoTree(4, nil)
	c0 := b.AddAutoCommit(80, tree, nil)
	t1 := b.AddAutoTag(40, c0, store.VariantCommit)
	t2 := b.AddAutoTag(40, t1, store.VariantTag)
	t3 := b.AddAutoTag(40, t2, store.VariantTag)
	mem := b.Build()

	acc := newAccumulator()
	require.NoError(t, acc.handleTag(t1, mem))
	require.NoError(t, acc.handleTag(t2, mem))
	require.NoError(t, acc.handleTag(t3, mem))

	depth, err := acc.resolveTagDepth(t3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, depth)

	max, err := acc.computeMaxTagDepth()
	require.NoError(t, err)
	assert.EqualValues(t, 3, max)
}
