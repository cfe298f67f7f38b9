// Package store defines the abstract, read-only view of a repository's
// object database that the engine consumes. Concrete implementations
// (a real Git repository opened over libgit2/go-git, a subprocess pipe,
// or, for tests, the in-memory Memory store in this package) live
// outside the engine; the engine only ever talks to the ObjectStoreAdapter
// interface.
package store

import (
	"fmt"

	"github.com/reposcan/reposcan/oid"
)

// Variant identifies which of the four object kinds a record is, or
// names the kind a tag points at.
type Variant int

const (
	VariantInvalid Variant = iota
	VariantCommit
	VariantTree
	VariantBlob
	VariantTag
)

func (v Variant) String() string {
	switch v {
	case VariantCommit:
		return "commit"
	case VariantTree:
		return "tree"
	case VariantBlob:
		return "blob"
	case VariantTag:
		return "tag"
	default:
		return "invalid"
	}
}

// Filemode is a Git tree-entry mode word. Only the bits that
// distinguish a directory, a submodule (commit) entry, and a symlink
// entry from a regular file are meaningful to the engine.
type Filemode uint32

const (
	modeTypeMask Filemode = 0170000
	modeTree     Filemode = 0040000
	modeSubmodule Filemode = 0160000
	modeSymlink  Filemode = 0120000
)

// IsSubmodule reports whether the entry mode marks a submodule (gitlink)
// entry, i.e. one whose target is a commit in another repository.
func (m Filemode) IsSubmodule() bool {
	return m&modeTypeMask == modeSubmodule
}

// IsSymlink reports whether the entry mode marks a symbolic link.
func (m Filemode) IsSymlink() bool {
	return m&modeTypeMask == modeSymlink
}

// IsTree reports whether the entry mode marks a sub-tree (directory).
func (m Filemode) IsTree() bool {
	return m&modeTypeMask == modeTree
}

// TreeEntry is one entry of a Tree object: a name, the mode under
// which it is recorded, and the object it points at.
type TreeEntry struct {
	Name          string
	Filemode      Filemode
	TargetVariant Variant
	TargetOID     oid.OID
}

// CommitInfo is the typed accessor for a Commit object.
type CommitInfo struct {
	Parents []oid.OID
	Tree    oid.OID
}

// TreeInfo is the typed accessor for a Tree object.
type TreeInfo struct {
	Entries []TreeEntry
}

// TagInfo is the typed accessor for an annotated Tag object.
type TagInfo struct {
	Target        oid.OID
	TargetVariant Variant
}

// Object is the result of a Lookup: the object's variant, its
// serialized (commit/tree/tag) or raw (blob) size in bytes, and
// whichever typed accessor matches Variant. Only the accessor field
// matching Variant is populated.
type Object struct {
	Variant Variant
	Size    uint64

	Commit CommitInfo
	Tree   TreeInfo
	Tag    TagInfo
}

// ObjectStoreAdapter is the abstract, read-only view of an object
// database that the engine consumes. Implementations must permit
// concurrent calls to Lookup from multiple goroutines while
// ForEachObjectID is still running.
type ObjectStoreAdapter interface {
	// ForEachObjectID invokes visit once per object present in the
	// store, in unspecified order. If visit returns an error,
	// iteration stops and that error is returned.
	ForEachObjectID(visit func(oid.OID) error) error

	// Lookup reads the object named by id and returns its variant,
	// size, and typed accessors. A LookupError is returned if id is
	// not present or cannot be read.
	Lookup(id oid.OID) (Object, error)

	// ForEachReference invokes visit once per reference name present
	// in the store (branches, tags, etc; the interpretation of a
	// reference is entirely up to the embedder). Only the number of
	// references is meaningful to the engine.
	ForEachReference(visit func(name string) error) error
}

// LookupError wraps a failure to read a specific object. The engine
// treats every LookupError as fatal for the run in which it occurs.
type LookupError struct {
	OID   oid.OID
	Cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("looking up object %s: %s", e.OID, e.Cause)
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}
