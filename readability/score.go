package readability

import (
	"regexp"
	"strings"

	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

var (
	rxUnlikelyCandidates   = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	rxOkMaybeItsACandidate = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)
	rxPositive             = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)
	rxNegative             = regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget`)
	rxByline               = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)
	rxSentenceEnd          = regexp.MustCompile(`\.( |$)`)
	rxDisplayNone          = regexp.MustCompile(`(?i)display\s*:\s*none`)
	rxVisibilityHidden     = regexp.MustCompile(`(?i)visibility\s*:\s*hidden`)
	rxCommas               = regexp.MustCompile("[,،﹐︐︑⹁⸴⸲，]")
)

var unlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true, "navigation": true,
	"alert": true, "alertdialog": true, "dialog": true,
}

var tagsToScore = map[string]bool{
	"section": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "p": true, "td": true, "pre": true,
}

// divToPTags are the children that keep a div from being read as a paragraph.
var divToPTags = map[string]bool{
	"blockquote": true, "dl": true, "div": true, "img": true, "ol": true,
	"p": true, "pre": true, "table": true, "ul": true,
}

// scorer holds the state of one extraction attempt.
type scorer struct {
	opts       *briefly.ExtractOptions
	flags      briefly.Flag
	scores     map[*html.Node]float64
	dataTables map[*html.Node]bool
}

func newScorer(opts *briefly.ExtractOptions, flags briefly.Flag) *scorer {
	return &scorer{
		opts:       opts,
		flags:      flags,
		scores:     make(map[*html.Node]float64),
		dataTables: make(map[*html.Node]bool),
	}
}

// classWeight rewards class and id names that look like content and
// penalizes those that look like boilerplate.
func (s *scorer) classWeight(n *html.Node) float64 {
	if !s.flags.Has(briefly.FlagWeightClasses) {
		return 0
	}
	weight := 0.0
	for _, v := range []string{getAttr(n, "class"), getAttr(n, "id")} {
		if v == "" {
			continue
		}
		if rxNegative.MatchString(v) {
			weight -= 25
		}
		if rxPositive.MatchString(v) {
			weight += 25
		}
	}
	return weight
}

func (s *scorer) initializeNode(n *html.Node) {
	score := 0.0
	switch n.Data {
	case "div":
		score += 5
	case "pre", "td", "blockquote":
		score += 3
	case "address", "ol", "ul", "dl", "dd", "dt", "li", "form":
		score -= 3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score -= 5
	}
	s.scores[n] = score + s.classWeight(n)
}

// linkDensity is the share of the text of n that sits inside links.
// In-page links count for less.
func linkDensity(n *html.Node) float64 {
	textLength := runeLen(innerText(n))
	if textLength == 0 {
		return 0
	}
	linkLength := 0.0
	for _, a := range getElementsByTagName(n, "a") {
		coefficient := 1.0
		if strings.HasPrefix(getAttr(a, "href"), "#") {
			coefficient = 0.3
		}
		linkLength += float64(runeLen(innerText(a))) * coefficient
	}
	return linkLength / float64(textLength)
}

// textDensity is the share of the text of n inside the given tags.
func textDensity(n *html.Node, tags ...string) float64 {
	textLength := runeLen(innerText(n))
	if textLength == 0 {
		return 0
	}
	childrenLength := 0
	for _, child := range getElementsByTagName(n, tags...) {
		childrenLength += runeLen(innerText(child))
	}
	return float64(childrenLength) / float64(textLength)
}

func isProbablyVisible(n *html.Node) bool {
	style := getAttr(n, "style")
	if rxDisplayNone.MatchString(style) || rxVisibilityHidden.MatchString(style) {
		return false
	}
	if hasAttr(n, "hidden") {
		return false
	}
	if getAttr(n, "aria-hidden") == "true" && !strings.Contains(getAttr(n, "class"), "fallback-image") {
		return false
	}
	return true
}

// isElementWithoutContent reports an element with no text whose only
// children, if any, are line breaks and rules.
func isElementWithoutContent(n *html.Node) bool {
	if n.Type != html.ElementNode || strings.TrimSpace(textContent(n)) != "" {
		return false
	}
	children := elementChildren(n)
	breaks := 0
	for _, c := range children {
		if isElement(c, "br", "hr") {
			breaks++
		}
	}
	return len(children) == breaks
}

// hasSingleTagInsideElement reports whether n has exactly one element
// child, of the given tag, and no text besides whitespace.
func hasSingleTagInsideElement(n *html.Node, tag string) bool {
	children := elementChildren(n)
	if len(children) != 1 || !isElement(children[0], tag) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}

func hasChildBlockElement(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if divToPTags[c.Data] || hasChildBlockElement(c) {
			return true
		}
	}
	return false
}

// ancestors returns up to maxDepth ancestors of n, nearest first.
// A maxDepth of zero returns all of them.
func ancestors(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
		if maxDepth > 0 && len(out) == maxDepth {
			break
		}
	}
	return out
}

func commaCount(text string) int {
	return len(rxCommas.FindAllStringIndex(text, -1))
}
