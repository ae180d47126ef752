package dxcc

import (
	"cmp"
	"slices"
	"strings"
)

// IndexEntry is one prefix token of an entity.
type IndexEntry struct {
	Prefix     string `json:"prefix"`
	EntityCode int    `json:"entity_code"`
	Name       string `json:"name"`
	Deleted    bool   `json:"deleted"`
}

// Match is the entity resolved for a callsign.
type Match struct {
	Prefix     string `json:"prefix"`
	EntityCode int    `json:"entity_code"`
	Name       string `json:"name"`
}

// Index is an immutable prefix index. Entries are ordered by descending
// prefix length, then ascending prefix; the first entry whose prefix starts
// the callsign wins. Lookups walk a byte trie with the same outcome.
//
// A nil *Index is valid and resolves nothing.
type Index struct {
	entries []IndexEntry
	root    *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	// entries holding exactly this prefix, in index order
	entries []int
}

// BuildIndex splits every entity's prefix list into uppercase trimmed tokens
// and sorts them.
func BuildIndex(entities []Entity) *Index {
	var entries []IndexEntry
	for _, e := range entities {
		for _, p := range parsePrefixes(e.Prefix) {
			entries = append(entries, IndexEntry{
				Prefix:     p,
				EntityCode: e.EntityCode,
				Name:       e.Name,
				Deleted:    e.Deleted,
			})
		}
	}

	slices.SortStableFunc(entries, func(a, b IndexEntry) int {
		if c := cmp.Compare(len(b.Prefix), len(a.Prefix)); c != 0 {
			return c
		}
		return strings.Compare(a.Prefix, b.Prefix)
	})

	idx := &Index{entries: entries, root: &trieNode{}}
	for i, e := range entries {
		n := idx.root
		for j := 0; j < len(e.Prefix); j++ {
			n = n.child(e.Prefix[j])
		}
		n.entries = append(n.entries, i)
	}
	return idx
}

// Resolve finds the entity for a callsign. Deleted entities are skipped
// unless includeDeleted is set.
func (idx *Index) Resolve(call string, includeDeleted bool) (Match, bool) {
	if idx == nil || idx.root == nil {
		return Match{}, false
	}
	c := normalizeCall(call)
	if c == "" {
		return Match{}, false
	}

	best := -1
	n := idx.root
	for i := 0; i < len(c); i++ {
		n = n.children[c[i]]
		if n == nil {
			break
		}
		for _, ei := range n.entries {
			if includeDeleted || !idx.entries[ei].Deleted {
				best = ei
				break
			}
		}
	}
	if best < 0 {
		return Match{}, false
	}

	e := idx.entries[best]
	return Match{Prefix: e.Prefix, EntityCode: e.EntityCode, Name: e.Name}, true
}

// Len reports the number of prefix entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Entries returns a copy of the sorted entry list.
func (idx *Index) Entries() []IndexEntry {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.entries)
}

func (n *trieNode) child(b byte) *trieNode {
	if n.children == nil {
		n.children = make(map[byte]*trieNode)
	}
	c, ok := n.children[b]
	if !ok {
		c = &trieNode{}
		n.children[b] = c
	}
	return c
}

func normalizeCall(call string) string {
	return strings.ToUpper(strings.TrimSpace(call))
}

func parsePrefixes(field string) []string {
	var out []string
	for _, p := range strings.Split(field, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
