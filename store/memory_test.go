package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcan/reposcan/oid"
	"github.com/reposcan/reposcan/store"
)

func TestMemoryBuildAndLookup(t *testing.T) {
	b := store.NewBuilder()
	blob := b.AddAutoBlob(10)
	tree := b.AddAutoTree(40, []store.TreeEntry{
		{Name: "f", Filemode: 0100644, TargetVariant: store.VariantBlob, TargetOID: blob},
	})
	commit := b.AddAutoCommit(120, tree, nil)
	b.AddReference("refs/heads/main")

	s := b.Build()

	obj, err := s.Lookup(commit)
	require.NoError(t, err)
	assert.Equal(t, store.VariantCommit, obj.Variant)
	assert.Equal(t, tree, obj.Commit.Tree)

	var seen []oid.OID
	require.NoError(t, s.ForEachObjectID(func(id oid.OID) error {
		seen = append(seen, id)
		return nil
	}))
	assert.Len(t, seen, 3)

	var refs []string
	require.NoError(t, s.ForEachReference(func(name string) error {
		refs = append(refs, name)
		return nil
	}))
	assert.Equal(t, []string{"refs/heads/main"}, refs)
}

func TestMemoryLookupMissing(t *testing.T) {
	s := store.NewBuilder().Build()
	_, err := s.Lookup(oid.OID{1})
	require.Error(t, err)
	var lookupErr *store.LookupError
	require.ErrorAs(t, err, &lookupErr)
}
