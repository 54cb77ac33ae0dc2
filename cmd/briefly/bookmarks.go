package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/etree"
)

// Run executes the pin command.
func (c *PinCmd) Run(deps *Dependencies) error {
	added, b, err := toggle(deps, briefly.KindPinned, c.URL, c.Title)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(deps.Stdout, "Pinned %s (%s)\n", b.Title, b.URL)
	} else {
		fmt.Fprintf(deps.Stdout, "Unpinned %s\n", b.URL)
	}
	return nil
}

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	added, b, err := toggle(deps, briefly.KindReading, c.URL, c.Title)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(deps.Stdout, "Added %s to the reading list\n", b.URL)
	} else {
		fmt.Fprintf(deps.Stdout, "Removed %s from the reading list\n", b.URL)
	}
	return nil
}

func toggle(deps *Dependencies, kind briefly.BookmarkKind, rawURL, title string) (bool, *briefly.Bookmark, error) {
	b, err := briefly.NewBookmark(kind, rawURL, title)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return false, nil, err
	}
	added, err := deps.Bookmarks.ToggleBookmark(deps.Ctx, b)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return false, nil, err
	}
	return added, b, nil
}

// Run executes the bookmarks command.
func (c *BookmarksCmd) Run(deps *Dependencies) error {
	bookmarks, err := deps.Bookmarks.FindBookmarks(deps.Ctx, briefly.BookmarkFilter{Kind: kindFilter(c.Kind)})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}

	if len(bookmarks) == 0 {
		fmt.Fprintln(deps.Stdout, "No bookmarks found. Use 'briefly pin' or 'briefly read' to add one.")
		return nil
	}

	for _, b := range bookmarks {
		fmt.Fprintf(deps.Stdout, "%s  %-7s  %s  %s\n", b.ID, b.Kind, b.Title, b.URL)
	}
	return nil
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	bookmarks, err := deps.Bookmarks.FindBookmarks(deps.Ctx, briefly.BookmarkFilter{Kind: kindFilter(c.Kind)})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}
	return etree.ExportXBEL(deps.Stdout, bookmarks)
}

// Run executes the import command. Bookmarks already present are left
// alone so importing the same file twice changes nothing.
func (c *ImportCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	bookmarks, err := etree.ImportXBEL(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}

	var imported, present int
	for _, b := range bookmarks {
		existing, err := deps.Bookmarks.FindBookmarks(deps.Ctx, briefly.BookmarkFilter{Kind: &b.Kind, URL: &b.URL, Limit: 1})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
			return err
		}
		if len(existing) > 0 {
			present++
			continue
		}
		if _, err := deps.Bookmarks.ToggleBookmark(deps.Ctx, b); err != nil {
			fmt.Fprintf(deps.Stderr, "error importing %s: %s\n", b.URL, briefly.ErrorMessage(err))
			return err
		}
		imported++
	}

	fmt.Fprintf(deps.Stdout, "Imported %d bookmarks (%d already present)\n", imported, present)
	return nil
}
