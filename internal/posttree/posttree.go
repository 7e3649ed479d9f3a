// Package posttree arranges the flat posts of a thread into the nested
// reply tree the API returns. Posts stay flat rows with parent pointers
// in storage; this package is the only place tree shape is materialized.
package posttree

import (
	"sort"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/models"
)

// FetchDepth is how many reply levels below the root set are included
// in a listing. It matches the storage depth cap, so a full thread fits.
const FetchDepth = 3

// Node is one post in the rendered tree. Content is the read-time
// visible content: soft-deleted posts carry the placeholder, never the
// stored text.
type Node struct {
	models.Post
	Content string  `json:"content"`
	Replies []*Node `json:"replies"`
}

// Options controls tree construction.
type Options struct {
	// PerLevelLimit caps how many siblings are returned at each level.
	// Zero means unlimited.
	PerLevelLimit int

	// Highlight names a post whose entire ancestor chain must be present
	// in the result, even when PerLevelLimit would drop part of it, so a
	// client can render and scroll to it.
	Highlight *uuid.UUID
}

// Build arranges posts into root nodes with nested replies. Siblings are
// ordered by creation time ascending (id as tie-break), and the order is
// a function of creation only: edits and soft deletion never move a post.
func Build(posts []models.Post, opts Options) []*Node {
	byParent := make(map[uuid.UUID][]models.Post)
	byID := make(map[uuid.UUID]models.Post, len(posts))
	var roots []models.Post
	for _, p := range posts {
		byID[p.ID] = p
		if p.ParentID == nil {
			roots = append(roots, p)
		} else {
			byParent[*p.ParentID] = append(byParent[*p.ParentID], p)
		}
	}

	sortByCreation(roots)
	for _, siblings := range byParent {
		sortByCreation(siblings)
	}

	keep := chainSet(byID, opts.Highlight)
	nodes := buildLevel(roots, byParent, 0, opts, keep)
	if nodes == nil {
		nodes = []*Node{}
	}
	return nodes
}

// AncestorChain returns the ids from the root post down to target,
// inclusive. Returns nil if target is not among posts.
func AncestorChain(posts []models.Post, target uuid.UUID) []uuid.UUID {
	byID := make(map[uuid.UUID]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	p, ok := byID[target]
	if !ok {
		return nil
	}
	var chain []uuid.UUID
	for {
		chain = append([]uuid.UUID{p.ID}, chain...)
		if p.ParentID == nil {
			return chain
		}
		parent, ok := byID[*p.ParentID]
		if !ok {
			// Orphaned parent pointer; treat what we have as the chain.
			return chain
		}
		p = parent
	}
}

func buildLevel(siblings []models.Post, byParent map[uuid.UUID][]models.Post, level int, opts Options, keep map[uuid.UUID]bool) []*Node {
	if level > FetchDepth {
		return nil
	}
	var nodes []*Node
	for i, p := range siblings {
		withinLimit := opts.PerLevelLimit == 0 || i < opts.PerLevelLimit
		if !withinLimit && !keep[p.ID] {
			continue
		}
		node := &Node{Post: p, Content: p.VisibleContent()}
		node.Replies = buildLevel(byParent[p.ID], byParent, level+1, opts, keep)
		if node.Replies == nil {
			node.Replies = []*Node{}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// chainSet marks the highlight target and all its ancestors as
// must-include.
func chainSet(byID map[uuid.UUID]models.Post, highlight *uuid.UUID) map[uuid.UUID]bool {
	keep := make(map[uuid.UUID]bool)
	if highlight == nil {
		return keep
	}
	p, ok := byID[*highlight]
	for ok {
		keep[p.ID] = true
		if p.ParentID == nil {
			break
		}
		p, ok = byID[*p.ParentID]
	}
	return keep
}

func sortByCreation(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.String() < posts[j].ID.String()
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}
