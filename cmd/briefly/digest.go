package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/digest"
	"github.com/fwojciec/briefly/fs"
)

// Run executes the digest command.
func (c *DigestCmd) Run(deps *Dependencies) error {
	kind := briefly.KindReading
	bookmarks, err := deps.Bookmarks.FindBookmarks(deps.Ctx, briefly.BookmarkFilter{Kind: &kind})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}
	if len(bookmarks) == 0 {
		fmt.Fprintln(deps.Stdout, "Reading list is empty. Use 'briefly read <url>' to add pages.")
		return nil
	}

	urls := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		urls[i] = b.URL
	}

	runner := deps.Digest
	if c.Concurrency > 0 {
		runner.Concurrency = c.Concurrency
	}
	if c.Out != "" {
		runner.Store = fs.NewFileStore(c.Out, "digest-"+time.Now().Format("2006-01-02"))
	}

	progress := func(event digest.ProgressEvent) {
		switch event.Type {
		case digest.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Summarizing %d pages\n", event.Total)
		case digest.ProgressCompleted, digest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "\r[%d/%d] %-60s", event.Completed, event.Total, digest.TruncateURL(event.URL, 60))
		case digest.ProgressFinished:
			fmt.Fprintf(deps.Stderr, "\r%80s\r", "")
		}
	}

	result, err := runner.Run(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "\nerror: %v\n", err)
		return err
	}

	for _, e := range result.Entries {
		if e.Err != nil || e.Summary == "" {
			continue
		}
		title := e.Title
		if title == "" {
			title = e.URL
		}
		fmt.Fprintf(deps.Stdout, "## %s\n%s\n\n%s\n\n", title, e.URL, e.Summary)
	}
	for _, e := range result.Entries {
		fmt.Fprintln(deps.Stderr, digest.FormatSummaryLine(e))
	}

	fmt.Fprintf(deps.Stderr, "Summarized %d, skipped %d, failed %d\n", result.Summarized, result.Skipped, result.Failed)
	if result.Saved > 0 {
		fmt.Fprintf(deps.Stderr, "Saved %d pages to %s (%s, %s)\n",
			result.Saved, c.Out, digest.FormatBytes(result.Bytes), digest.FormatTokens(result.Tokens))
	}

	if c.Clear {
		for i, e := range result.Entries {
			if e.Err != nil || e.Summary == "" {
				continue
			}
			if err := deps.Bookmarks.DeleteBookmark(deps.Ctx, bookmarks[i].ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
				return err
			}
		}
	}
	return nil
}
