package readability

import (
	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

// NodeList is an indexed collection of nodes.
type NodeList interface {
	Len() int
	Item(i int) *html.Node

	// Live reports whether the list is recomputed from the tree on every
	// access. Removing nodes while walking a live list skips entries.
	Live() bool
}

// StaticNodeList is a snapshot of nodes taken at one point in time.
type StaticNodeList []*html.Node

func (l StaticNodeList) Len() int              { return len(l) }
func (l StaticNodeList) Item(i int) *html.Node { return l[i] }
func (l StaticNodeList) Live() bool            { return false }

// ElementsByTagName is a live list of the elements under a root with a
// given tag name.
type ElementsByTagName struct {
	root *html.Node
	tag  string
}

// NewElementsByTagName returns a live list of tag elements under root.
func NewElementsByTagName(root *html.Node, tag string) *ElementsByTagName {
	return &ElementsByTagName{root: root, tag: tag}
}

func (l *ElementsByTagName) Len() int {
	return len(getElementsByTagName(l.root, l.tag))
}

func (l *ElementsByTagName) Item(i int) *html.Node {
	nodes := getElementsByTagName(l.root, l.tag)
	if i < 0 || i >= len(nodes) {
		return nil
	}
	return nodes[i]
}

func (l *ElementsByTagName) Live() bool { return true }

// Snapshot returns a static copy of list.
func Snapshot(list NodeList) StaticNodeList {
	out := make(StaticNodeList, list.Len())
	for i := range out {
		out[i] = list.Item(i)
	}
	return out
}

// RemoveNodes detaches every node of list for which filter returns true.
// A nil filter removes all nodes. The list is walked from the end so that
// a removal never shifts an entry that has not been visited yet. Nodes
// that are already detached are skipped.
//
// Returns ELIVECOLLECTION, removing nothing, when list is live.
func RemoveNodes(list NodeList, filter func(n *html.Node, i int) bool) error {
	if list.Live() {
		return briefly.Errorf(briefly.ELIVECOLLECTION, "cannot remove nodes while iterating a live node list")
	}
	static, ok := list.(StaticNodeList)
	if !ok {
		static = Snapshot(list)
	}
	static.RemoveIf(filter)
	return nil
}

// RemoveIf is RemoveNodes for a snapshot, which can never fail.
func (l StaticNodeList) RemoveIf(filter func(n *html.Node, i int) bool) {
	for i := len(l) - 1; i >= 0; i-- {
		n := l[i]
		if n == nil || n.Parent == nil {
			continue
		}
		if filter == nil || filter(n, i) {
			n.Parent.RemoveChild(n)
		}
	}
}
