package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/reposcan/reposcan/oid"
)

// Memory is an in-memory ObjectStoreAdapter, the in-process descendant
// of the teacher's on-disk TestRepo fixtures: instead of shelling out
// to `git init` and `git hash-object`, a Builder assembles objects
// directly as Go values. It is safe for concurrent Lookup calls, as
// the interface requires, because after a Builder finishes building it
// is handed off as read-only.
type Memory struct {
	objects map[oid.OID]Object
	refs    []string
}

// Builder accumulates objects and references before producing an
// immutable Memory store via Build().
type Builder struct {
	mu      sync.Mutex
	objects map[oid.OID]Object
	refs    []string
	nextOID uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		objects: make(map[oid.OID]Object),
	}
}

// autoOID deterministically mints a fresh OID distinct from every
// other one this Builder has minted. Tests that don't care about
// specific hashes can use this instead of spelling out 40 hex digits.
func (b *Builder) autoOID() oid.OID {
	b.nextOID++
	var o oid.OID
	binary.BigEndian.PutUint64(o[len(o)-8:], b.nextOID)
	return o
}

// AddBlob registers a blob of the given size and returns its OID.
func (b *Builder) AddBlob(id oid.OID, size uint64) oid.OID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[id] = Object{Variant: VariantBlob, Size: size}
	return id
}

// AddAutoBlob is AddBlob with an automatically minted OID.
func (b *Builder) AddAutoBlob(size uint64) oid.OID {
	return b.AddBlob(b.autoOID(), size)
}

// AddTree registers a tree with the given entries and returns its OID.
// An empty entry list still occupies a slot (the accumulator is
// responsible for excluding it per invariant 2, not the store).
func (b *Builder) AddTree(id oid.OID, serializedSize uint64, entries []TreeEntry) oid.OID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[id] = Object{
		Variant: VariantTree,
		Size:    serializedSize,
		Tree:    TreeInfo{Entries: entries},
	}
	return id
}

// AddAutoTree is AddTree with an automatically minted OID.
func (b *Builder) AddAutoTree(serializedSize uint64, entries []TreeEntry) oid.OID {
	return b.AddTree(b.autoOID(), serializedSize, entries)
}

// AddCommit registers a commit with the given tree and parents and
// returns its OID.
func (b *Builder) AddCommit(id oid.OID, serializedSize uint64, tree oid.OID, parents []oid.OID) oid.OID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[id] = Object{
		Variant: VariantCommit,
		Size:    serializedSize,
		Commit:  CommitInfo{Parents: parents, Tree: tree},
	}
	return id
}

// AddAutoCommit is AddCommit with an automatically minted OID.
func (b *Builder) AddAutoCommit(serializedSize uint64, tree oid.OID, parents []oid.OID) oid.OID {
	return b.AddCommit(b.autoOID(), serializedSize, tree, parents)
}

// AddTag registers an annotated tag pointing at target (of the given
// variant) and returns the tag's own OID.
func (b *Builder) AddTag(id oid.OID, serializedSize uint64, target oid.OID, targetVariant Variant) oid.OID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[id] = Object{
		Variant: VariantTag,
		Size:    serializedSize,
		Tag:     TagInfo{Target: target, TargetVariant: targetVariant},
	}
	return id
}

// AddAutoTag is AddTag with an automatically minted OID.
func (b *Builder) AddAutoTag(serializedSize uint64, target oid.OID, targetVariant Variant) oid.OID {
	return b.AddTag(b.autoOID(), serializedSize, target, targetVariant)
}

// AddReference registers a reference name; only the count is ever
// consulted by the engine.
func (b *Builder) AddReference(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refs = append(b.refs, name)
}

// Build freezes the builder's contents into a Memory store.
func (b *Builder) Build() *Memory {
	b.mu.Lock()
	defer b.mu.Unlock()
	objects := make(map[oid.OID]Object, len(b.objects))
	for k, v := range b.objects {
		objects[k] = v
	}
	refs := make([]string, len(b.refs))
	copy(refs, b.refs)
	return &Memory{objects: objects, refs: refs}
}

func (m *Memory) ForEachObjectID(visit func(oid.OID) error) error {
	for id := range m.objects {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Lookup(id oid.OID) (Object, error) {
	obj, ok := m.objects[id]
	if !ok {
		return Object{}, &LookupError{OID: id, Cause: fmt.Errorf("object not found")}
	}
	return obj, nil
}

func (m *Memory) ForEachReference(visit func(name string) error) error {
	for _, name := range m.refs {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
