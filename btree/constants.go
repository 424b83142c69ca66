package btree

import "github.com/lkim94gatech/buzzpage/page"

// LeafCap and InnerCap are the maximum number of entries (leaf) or
// children (inner) per node.
const (
	LeafCap  = page.LeafCap
	InnerCap = page.InnerCap
)

// firstPageID is where page-id allocation starts; page 0 is reserved.
const firstPageID uint64 = 1
