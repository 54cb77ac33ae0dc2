package mock

import (
	"context"

	"github.com/fwojciec/briefly"
)

var _ briefly.BookmarkService = (*BookmarkService)(nil)

// BookmarkService is a mock implementation of briefly.BookmarkService.
type BookmarkService struct {
	ToggleBookmarkFn func(ctx context.Context, b *briefly.Bookmark) (bool, error)
	FindBookmarksFn  func(ctx context.Context, filter briefly.BookmarkFilter) ([]*briefly.Bookmark, error)
	DeleteBookmarkFn func(ctx context.Context, id string) error
}

func (s *BookmarkService) ToggleBookmark(ctx context.Context, b *briefly.Bookmark) (bool, error) {
	return s.ToggleBookmarkFn(ctx, b)
}

func (s *BookmarkService) FindBookmarks(ctx context.Context, filter briefly.BookmarkFilter) ([]*briefly.Bookmark, error) {
	return s.FindBookmarksFn(ctx, filter)
}

func (s *BookmarkService) DeleteBookmark(ctx context.Context, id string) error {
	return s.DeleteBookmarkFn(ctx, id)
}
