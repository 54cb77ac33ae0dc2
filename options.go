package briefly

import (
	"regexp"

	"golang.org/x/net/html"
)

// Flag toggles a stage of the scored extraction strategy.
type Flag uint8

// Extraction flags. A failed attempt clears them one at a time, in this order.
const (
	FlagStripUnlikelys Flag = 1 << iota
	FlagWeightClasses
	FlagCleanConditionally

	FlagsAll = FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally
)

// Strategy selects how the content container is assembled.
type Strategy string

const (
	// StrategyScored scores every block by text, tag, class and link
	// density and keeps the best subtree with its related siblings.
	StrategyScored Strategy = "scored"

	// StrategyParagraphs keeps every paragraph longer than
	// MinParagraphLength, in document order.
	StrategyParagraphs Strategy = "paragraphs"

	// StrategySelectors keeps the longest of the usual article wrappers
	// (main, article, #content and the like), or the body when none has
	// real text.
	StrategySelectors Strategy = "selectors"
)

// DefaultVideoRegex matches embeds from video hosts that survive cleanup.
var DefaultVideoRegex = regexp.MustCompile(`//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`)

// Extraction defaults.
const (
	DefaultNbTopCandidates    = 5
	DefaultMaxPages           = 5
	DefaultWordThreshold      = 500
	DefaultCharThreshold      = 2000
	DefaultMinParagraphLength = 100
)

// ExtractOptions configures one extraction. Options are read-only while a
// parse is running, so a single value may be shared between goroutines.
type ExtractOptions struct {
	Debug bool

	// MaxElemsToParse bounds the scoring walk. Zero means unbounded.
	MaxElemsToParse int

	NbTopCandidates int

	// MaxPages is accepted for compatibility. Only the given page is
	// extracted.
	MaxPages int

	ClassesToPreserve []string
	KeepClasses       bool

	// Serializer renders the content container. When nil the inner HTML
	// of the container is used.
	Serializer func(*html.Node) (string, error)

	AllowedVideoRegex *regexp.Regexp

	// WordThreshold and CharThreshold are the smallest scored result
	// accepted without retrying. Zero disables a threshold.
	WordThreshold int
	CharThreshold int

	Strategy           Strategy
	Flags              Flag
	MinParagraphLength int
}

// DefaultExtractOptions returns the options used when none are given.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		NbTopCandidates:    DefaultNbTopCandidates,
		MaxPages:           DefaultMaxPages,
		AllowedVideoRegex:  DefaultVideoRegex,
		WordThreshold:      DefaultWordThreshold,
		CharThreshold:      DefaultCharThreshold,
		Strategy:           StrategyScored,
		Flags:              FlagsAll,
		MinParagraphLength: DefaultMinParagraphLength,
	}
}

// Validate returns an error if the options cannot be used.
func (o *ExtractOptions) Validate() error {
	switch {
	case o.MaxElemsToParse < 0:
		return Errorf(EINVALID, "max elements to parse must not be negative")
	case o.NbTopCandidates < 0:
		return Errorf(EINVALID, "number of top candidates must not be negative")
	case o.MaxPages < 0:
		return Errorf(EINVALID, "max pages must not be negative")
	case o.WordThreshold < 0:
		return Errorf(EINVALID, "word threshold must not be negative")
	case o.CharThreshold < 0:
		return Errorf(EINVALID, "char threshold must not be negative")
	case o.MinParagraphLength < 0:
		return Errorf(EINVALID, "min paragraph length must not be negative")
	}
	switch o.Strategy {
	case StrategyScored, StrategyParagraphs, StrategySelectors, "":
	default:
		return Errorf(EINVALID, "unknown extraction strategy %q", o.Strategy)
	}
	return nil
}

// Has reports whether all bits of flag are set.
func (f Flag) Has(flag Flag) bool {
	return f&flag == flag
}
