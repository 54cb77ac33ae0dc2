package digest

import (
	"fmt"
	"strings"

	"github.com/fwojciec/briefly"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatEntry renders the markdown body of a digest page: the summary
// followed by the article.
func FormatEntry(summary, article string) string {
	var b strings.Builder
	if summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(strings.TrimSpace(summary))
		b.WriteString("\n\n")
	}
	if article != "" {
		b.WriteString("## Article\n\n")
		b.WriteString(strings.TrimSpace(article))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSummaryLine is the one-line report printed for each entry.
func FormatSummaryLine(e *Entry) string {
	switch {
	case e.Err != nil && briefly.ErrorCode(e.Err) == briefly.EINSUFFICIENT:
		return fmt.Sprintf("skip %s: %s", e.URL, briefly.ErrorMessage(e.Err))
	case e.Err != nil && briefly.ErrorCode(e.Err) != briefly.EINTERNAL:
		return fmt.Sprintf("fail %s: %s", e.URL, briefly.ErrorMessage(e.Err))
	case e.Err != nil:
		return fmt.Sprintf("fail %s: %v", e.URL, e.Err)
	case e.Cached:
		return fmt.Sprintf("ok   %s (cached)", e.URL)
	default:
		return fmt.Sprintf("ok   %s", e.URL)
	}
}
