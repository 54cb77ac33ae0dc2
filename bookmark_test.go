package briefly_test

import (
	"testing"

	"github.com/fwojciec/briefly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", briefly.SiteName("www.example.com"))
	assert.Equal(t, "blog.example.com", briefly.SiteName("blog.example.com"))
	assert.Equal(t, "www.example.com", briefly.SiteName("www.www.example.com"))
}

func TestFaviconURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.google.com/s2/favicons?domain=www.example.com&sz=32",
		briefly.FaviconURL("www.example.com"),
	)
}

func TestNewBookmark(t *testing.T) {
	t.Parallel()

	t.Run("fills site metadata", func(t *testing.T) {
		t.Parallel()

		b, err := briefly.NewBookmark(briefly.KindPinned, "https://www.example.com/a", "")

		require.NoError(t, err)
		assert.Equal(t, briefly.KindPinned, b.Kind)
		assert.Equal(t, "example.com", b.SiteName)
		assert.Equal(t, "example.com", b.Title)
		assert.Contains(t, b.Favicon, "domain=www.example.com")
	})

	t.Run("keeps given title", func(t *testing.T) {
		t.Parallel()

		b, err := briefly.NewBookmark(briefly.KindReading, "https://example.com/a", "An Article")

		require.NoError(t, err)
		assert.Equal(t, "An Article", b.Title)
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := briefly.NewBookmark(briefly.KindReading, "/relative", "")

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})
}

func TestBookmark_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		b := &briefly.Bookmark{Kind: briefly.KindReading, URL: "https://example.com"}

		assert.NoError(t, b.Validate())
	})

	t.Run("missing URL", func(t *testing.T) {
		t.Parallel()

		b := &briefly.Bookmark{Kind: briefly.KindReading}

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(b.Validate()))
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		b := &briefly.Bookmark{Kind: "starred", URL: "https://example.com"}

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(b.Validate()))
	})
}

func TestBookmarkKind_Limit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, briefly.KindPinned.Limit())
	assert.Equal(t, 20, briefly.KindReading.Limit())
	assert.Equal(t, 0, briefly.BookmarkKind("other").Limit())
}
