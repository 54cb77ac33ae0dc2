package readability

import (
	"log/slog"
	"math"
	"sort"

	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

const (
	minScoredTextLength    = 25
	maxScoredAncestorDepth = 5
	minAlternativeMatches  = 3
	alternativeScoreRatio  = 0.75
	shortParagraphLength   = 80
)

// grabParagraphs returns a container holding copies of every paragraph
// longer than minLength, or a copy of the whole body when there are none.
func grabParagraphs(body *html.Node, minLength int) *html.Node {
	container := newElement("div")
	for _, p := range getElementsByTagName(body, "p") {
		if runeLen(innerText(p)) > minLength {
			container.AppendChild(cloneNode(p))
		}
	}
	if container.FirstChild == nil {
		appendClonedChildren(container, body)
	}
	return container
}

func appendClonedChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		dst.AppendChild(cloneNode(c))
	}
}

// grabScored runs the scored strategy on doc, which it is free to modify,
// and returns a fresh container.
func (s *scorer) grabScored(body *html.Node, logger *slog.Logger) *html.Node {
	elementsToScore := s.walk(body, logger)

	// Score paragraphs into their ancestors.
	var candidates []*html.Node
	for _, el := range elementsToScore {
		if el.Parent == nil || el.Parent.Type != html.ElementNode {
			continue
		}
		text := innerText(el)
		if runeLen(text) < minScoredTextLength {
			continue
		}
		score := 1 + float64(commaCount(text)) + math.Min(math.Floor(float64(runeLen(text))/100), 3)

		for level, anc := range ancestors(el, maxScoredAncestorDepth) {
			if anc.Type != html.ElementNode || anc.Parent == nil || anc.Parent.Type != html.ElementNode {
				continue
			}
			if _, ok := s.scores[anc]; !ok {
				s.initializeNode(anc)
				candidates = append(candidates, anc)
			}
			divider := 1.0
			switch level {
			case 0:
			case 1:
				divider = 2
			default:
				divider = float64(level * 3)
			}
			s.scores[anc] += score / divider
		}
	}

	top := s.topCandidates(body, candidates)
	if len(top) == 0 || isElement(top[0], "body") {
		logger.Debug("no top candidate, using body", "candidates", len(candidates))
		return s.fallback(body)
	}

	best := s.promote(body, top)
	logger.Debug("top candidate", "tag", best.Data, "class", getAttr(best, "class"), "score", s.scores[best])

	container := s.mergeSiblings(best)
	s.prepArticle(container)
	return container
}

// walk strips unlikely and empty elements from body and collects the
// elements worth scoring. When the element budget runs out, the walk stops
// and what was collected so far is returned.
func (s *scorer) walk(body *html.Node, logger *slog.Logger) []*html.Node {
	var elementsToScore []*html.Node
	count := 0

	for node := body; node != nil; {
		count++
		if limit := s.opts.MaxElemsToParse; limit > 0 && count > limit {
			logger.Debug("element budget exhausted", "max", limit)
			break
		}

		if node != body && !isProbablyVisible(node) {
			node = removeAndGetNext(node, body)
			continue
		}
		if getAttr(node, "aria-modal") == "true" && getAttr(node, "role") == "dialog" {
			node = removeAndGetNext(node, body)
			continue
		}

		if s.flags.Has(briefly.FlagStripUnlikelys) && node != body {
			match := getAttr(node, "class") + " " + getAttr(node, "id")
			if rxUnlikelyCandidates.MatchString(match) &&
				!rxOkMaybeItsACandidate.MatchString(match) &&
				!hasAncestorTag(node, "table") &&
				!hasAncestorTag(node, "code") &&
				!isElement(node, "a") {
				node = removeAndGetNext(node, body)
				continue
			}
			if unlikelyRoles[getAttr(node, "role")] {
				node = removeAndGetNext(node, body)
				continue
			}
		}

		if isElement(node, "div", "section", "header", "h1", "h2", "h3", "h4", "h5", "h6") && isElementWithoutContent(node) {
			node = removeAndGetNext(node, body)
			continue
		}

		if tagsToScore[node.Data] {
			elementsToScore = append(elementsToScore, node)
		}

		if isElement(node, "div") {
			wrapPhrasingContent(node)

			if hasSingleTagInsideElement(node, "p") && linkDensity(node) < 0.25 {
				p := firstElementChild(node)
				replaceNode(node, p)
				node = p
				elementsToScore = append(elementsToScore, node)
			} else if !hasChildBlockElement(node) {
				setTag(node, "p")
				elementsToScore = append(elementsToScore, node)
			}
		}
		node = nextNode(node, body, false)
	}
	return elementsToScore
}

// wrapPhrasingContent moves runs of inline content directly under div
// into paragraphs.
func wrapPhrasingContent(div *html.Node) {
	var p *html.Node
	for child := div.FirstChild; child != nil; {
		next := child.NextSibling
		switch {
		case isPhrasingContent(child):
			if p != nil {
				div.RemoveChild(child)
				p.AppendChild(child)
			} else if !isWhitespace(child) {
				p = newElement("p")
				div.InsertBefore(p, child)
				div.RemoveChild(child)
				p.AppendChild(child)
			}
		case p != nil:
			for p.LastChild != nil && isWhitespace(p.LastChild) {
				p.RemoveChild(p.LastChild)
			}
			p = nil
		}
		child = next
	}
}

// nextNode walks elements in document order without leaving root.
func nextNode(n, root *html.Node, ignoreChildren bool) *html.Node {
	if !ignoreChildren {
		if c := firstElementChild(n); c != nil {
			return c
		}
	}
	for ; n != nil && n != root; n = n.Parent {
		if s := nextElementSibling(n); s != nil {
			return s
		}
	}
	return nil
}

func removeAndGetNext(n, root *html.Node) *html.Node {
	next := nextNode(n, root, true)
	detach(n)
	return next
}

// topCandidates scales candidate scores by link density and returns the
// best NbTopCandidates, highest score first and document order on ties.
func (s *scorer) topCandidates(body *html.Node, candidates []*html.Node) []*html.Node {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		s.scores[c] *= 1 - linkDensity(c)
	}

	order := make(map[*html.Node]int)
	order[body] = 0
	for i, n := range findAll(body, func(n *html.Node) bool { return n.Type == html.ElementNode }) {
		order[n] = i + 1
	}

	sorted := make([]*html.Node, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := s.scores[sorted[i]], s.scores[sorted[j]]
		if si != sj {
			return si > sj
		}
		return order[sorted[i]] < order[sorted[j]]
	})

	n := s.opts.NbTopCandidates
	if n <= 0 {
		n = briefly.DefaultNbTopCandidates
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// promote picks the subtree to extract starting from the best candidate.
// A shared ancestor of several near-best candidates wins over the best
// candidate alone; then the parent chain is climbed while scores rise.
func (s *scorer) promote(body *html.Node, top []*html.Node) *html.Node {
	best := top[0]
	bestScore := s.scores[best]

	var alternatives [][]*html.Node
	for _, c := range top[1:] {
		if bestScore > 0 && s.scores[c]/bestScore >= alternativeScoreRatio {
			alternatives = append(alternatives, ancestors(c, 0))
		}
	}
	if len(alternatives) >= minAlternativeMatches {
		for parent := best.Parent; parent != nil && parent != body; parent = parent.Parent {
			matches := 0
			for _, ancs := range alternatives {
				for _, a := range ancs {
					if a == parent {
						matches++
						break
					}
				}
			}
			if matches >= minAlternativeMatches {
				best = parent
				break
			}
		}
	}
	if _, ok := s.scores[best]; !ok {
		s.initializeNode(best)
	}

	lastScore := s.scores[best]
	threshold := lastScore / 3
	for parent := best.Parent; parent != nil && parent != body; parent = parent.Parent {
		score, ok := s.scores[parent]
		if !ok {
			continue
		}
		if score < threshold {
			break
		}
		if score > lastScore {
			best = parent
			break
		}
		lastScore = score
	}

	for parent := best.Parent; parent != nil && parent != body && len(elementChildren(parent)) == 1; parent = best.Parent {
		best = parent
	}
	if _, ok := s.scores[best]; !ok {
		s.initializeNode(best)
	}
	return best
}

var keepTagOnMerge = map[string]bool{
	"div": true, "article": true, "section": true, "p": true,
}

// mergeSiblings copies best and the siblings that look related to it into
// a new container.
func (s *scorer) mergeSiblings(best *html.Node) *html.Node {
	container := newElement("div")
	bestScore := s.scores[best]
	threshold := math.Max(10, bestScore*0.2)
	bestClass := getAttr(best, "class")

	siblings := []*html.Node{best}
	if best.Parent != nil {
		siblings = elementChildren(best.Parent)
	}
	for _, sibling := range siblings {
		if !s.isRelatedSibling(sibling, best, bestClass, bestScore, threshold) {
			continue
		}
		clone := cloneNode(sibling)
		if !keepTagOnMerge[clone.Data] {
			setTag(clone, "div")
		}
		container.AppendChild(clone)
	}
	return container
}

func (s *scorer) isRelatedSibling(sibling, best *html.Node, bestClass string, bestScore, threshold float64) bool {
	if sibling == best {
		return true
	}
	bonus := 0.0
	if bestClass != "" && getAttr(sibling, "class") == bestClass {
		bonus = bestScore * 0.2
	}
	if score, ok := s.scores[sibling]; ok && score+bonus >= threshold {
		return true
	}
	if !isElement(sibling, "p") {
		return false
	}
	density := linkDensity(sibling)
	text := innerText(sibling)
	length := runeLen(text)
	switch {
	case length > shortParagraphLength:
		return density < 0.25
	case length > 0:
		return density == 0 && rxSentenceEnd.MatchString(text)
	}
	return false
}

// fallback wraps a copy of everything in body and cleans it like a
// regular candidate.
func (s *scorer) fallback(body *html.Node) *html.Node {
	container := newElement("div")
	appendClonedChildren(container, body)
	s.prepArticle(container)
	return container
}
