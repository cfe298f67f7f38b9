package engine

import (
	"github.com/reposcan/reposcan/counts"
	"github.com/reposcan/reposcan/oid"
)

// commitNode is one vertex of the commit DAG: the commits that name it
// as a parent (its children, in history-walking terms) and a counter
// consumed once per incoming child->parent edge while peeling depth.
type commitNode struct {
	children    []*commitNode
	parentsLeft int
}

// commitDag is the parent/child graph of every commit seen so far,
// built incrementally as commits are accumulated and used, once the
// worker pool has drained, to compute the longest root-to-leaf depth.
// addNode must only be called while holding the commits-table lock (it
// is reached exclusively from the commit accumulation path); maxDepth
// is only ever called single-threaded, after every worker has exited.
type commitDag struct {
	nodes map[oid.OID]*commitNode
	roots []*commitNode
}

func newCommitDag() *commitDag {
	return &commitDag{nodes: make(map[oid.OID]*commitNode)}
}

func (d *commitDag) getOrCreate(id oid.OID) *commitNode {
	n, ok := d.nodes[id]
	if !ok {
		n = &commitNode{}
		d.nodes[id] = n
	}
	return n
}

// addNode records that commit id declares the given parents. If id was
// already present as a placeholder (created by a child's addNode
// before id's own commit had been accumulated), its parentsLeft is now
// filled in with the real count. A commit declared with zero parents
// is a root.
func (d *commitDag) addNode(id oid.OID, parents []oid.OID, parentCount counts.Count32) {
	node := d.getOrCreate(id)
	node.parentsLeft = int(parentCount.ToUint64())
	if parentCount == 0 {
		d.roots = append(d.roots, node)
	}
	for _, p := range parents {
		parent := d.getOrCreate(p)
		parent.children = append(parent.children, node)
	}
}

// maxDepth computes the number of vertices on the longest root-to-leaf
// path, iteratively: a node enters the frontier only once every parent
// edge leading to it has been peeled off, so the frontier at depth N
// holds exactly the commits whose longest path from any root has
// length N. This is stack-safe regardless of history depth and runs in
// O(V+E).
func (d *commitDag) maxDepth() counts.Count32 {
	frontier := make([]*commitNode, len(d.roots))
	copy(frontier, d.roots)

	var depth counts.Count32
	for len(frontier) > 0 {
		depth.Increment(1)

		var next []*commitNode
		for _, node := range frontier {
			for _, child := range node.children {
				child.parentsLeft--
				if child.parentsLeft == 0 {
					next = append(next, child)
				}
			}
		}
		frontier = next
	}
	return depth
}
