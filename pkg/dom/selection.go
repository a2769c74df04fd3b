package dom

import (
	"linkcopy/pkg/linkcopy"

	"golang.org/x/net/html"
)

type selection Page

func (s *selection) SelectContents(el linkcopy.Element) error {
	e, ok := el.(*Element)
	if !ok {
		return ErrForeignElement
	}
	if s.doc.FindNodes(e.node).Length() == 0 {
		return ErrNotAttached
	}
	s.ranges = append(s.ranges[:0], e.node)
	return nil
}

// collapseInto drops ranges inside n, as browsers do when n is removed.
func (s *selection) collapseInto(n *html.Node) {
	kept := s.ranges[:0]
	for _, r := range s.ranges {
		if !isInclusiveAncestor(n, r) {
			kept = append(kept, r)
		}
	}
	s.ranges = kept
}

func isInclusiveAncestor(ancestor, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}
