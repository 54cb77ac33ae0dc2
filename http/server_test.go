package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/briefly"
	brieflyhttp "github.com/fwojciec/briefly/http"
	"github.com/fwojciec/briefly/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleText = "The quick brown fox jumps over the lazy dog. It kept running until the sun set behind the hills."

func newTestPipeline() *briefly.Pipeline {
	return &briefly.Pipeline{
		Extractor: &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*briefly.Article, error) {
				if !strings.Contains(rawHTML, "<body") {
					return nil, briefly.Errorf(briefly.EMISSINGBODY, "document has no body")
				}
				return &briefly.Article{
					Title:       "Fox",
					ContentHTML: "<div><p>" + articleText + "</p></div>",
					TextContent: articleText,
					Length:      len(articleText),
					SiteName:    "example.com",
					URL:         pageURL,
				}, nil
			},
		},
		Summarizer: &mock.Summarizer{
			SummarizeFn: func(ctx context.Context, text string) (*briefly.Summary, error) {
				return &briefly.Summary{Result: "A fox runs.", Thoughts: "done"}, nil
			},
		},
		Asker: &mock.Asker{
			AskFn: func(ctx context.Context, question, source string) (*briefly.Answer, error) {
				return &briefly.Answer{
					Result:    "The dog.",
					Citations: []briefly.Citation{},
					Documents: []string{},
				}, nil
			},
		},
		MinChars: briefly.DefaultMinChars,
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var v map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_Extract(t *testing.T) {
	t.Parallel()

	srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)

	t.Run("returns article", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/extract", `{"html":"<html><body><p>x</p></body></html>","url":"https://example.com/fox"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		v := decode(t, rec)
		assert.Equal(t, "Fox", v["title"])
		assert.Equal(t, "https://example.com/fox", v["url"])
		assert.Equal(t, articleText, v["textContent"])
		assert.EqualValues(t, 19, v["wordCount"])
	})

	t.Run("missing body maps to 422", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/extract", `{"html":"<p>x</p>","url":"https://example.com"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, briefly.EMISSINGBODY, decode(t, rec)["code"])
	})

	t.Run("empty html is bad request", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/extract", `{"html":"","url":"https://example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON is bad request", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/extract", `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, briefly.EINVALID, decode(t, rec)["code"])
	})

	t.Run("wrong method is rejected", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodGet, "/api/extract", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("returns summary with article", func(t *testing.T) {
		t.Parallel()

		srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)

		rec := do(t, srv, http.MethodPost, "/api/summarize", `{"html":"<body><p>x</p></body>","url":"https://example.com/fox"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		v := decode(t, rec)
		assert.Equal(t, "A fox runs.", v["result"])
		assert.Equal(t, "done", v["thoughts"])
		article, ok := v["article"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Fox", article["title"])
	})

	t.Run("short article maps to 422", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		p.MinChars = 10000
		srv := brieflyhttp.NewServer(p, nil, nil)

		rec := do(t, srv, http.MethodPost, "/api/summarize", `{"html":"<body><p>x</p></body>","url":"https://example.com/fox"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, briefly.EINSUFFICIENT, decode(t, rec)["code"])
	})

	t.Run("missing model maps to 401", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		p.Summarizer = nil
		srv := brieflyhttp.NewServer(p, nil, nil)

		rec := do(t, srv, http.MethodPost, "/api/summarize", `{"html":"<body><p>x</p></body>","url":"https://example.com/fox"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		p.Summarizer = &mock.Summarizer{
			SummarizeFn: func(ctx context.Context, text string) (*briefly.Summary, error) {
				return nil, io.ErrUnexpectedEOF
			},
		}
		srv := brieflyhttp.NewServer(p, nil, nil)

		rec := do(t, srv, http.MethodPost, "/api/summarize", `{"html":"<body><p>x</p></body>","url":"https://example.com/fox"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal error.", decode(t, rec)["error"])
	})
}

func TestServer_Ask(t *testing.T) {
	t.Parallel()

	srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)

	t.Run("returns answer", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/ask", `{"html":"<body><p>x</p></body>","url":"https://example.com","question":"Who is lazy?"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		v := decode(t, rec)
		assert.Equal(t, "The dog.", v["result"])
		assert.Equal(t, []any{}, v["citations"])
	})

	t.Run("missing question is bad request", func(t *testing.T) {
		t.Parallel()

		rec := do(t, srv, http.MethodPost, "/api/ask", `{"html":"<body><p>x</p></body>","url":"https://example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Bookmarks(t *testing.T) {
	t.Parallel()

	t.Run("lists bookmarks with filter", func(t *testing.T) {
		t.Parallel()

		var got briefly.BookmarkFilter
		bookmarks := &mock.BookmarkService{
			FindBookmarksFn: func(ctx context.Context, filter briefly.BookmarkFilter) ([]*briefly.Bookmark, error) {
				got = filter
				return []*briefly.Bookmark{{ID: "1", Kind: briefly.KindPinned, URL: "https://example.com"}}, nil
			},
		}
		srv := brieflyhttp.NewServer(newTestPipeline(), bookmarks, nil)

		rec := do(t, srv, http.MethodGet, "/api/bookmarks?kind=pinned&limit=5&offset=1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Kind)
		assert.Equal(t, briefly.KindPinned, *got.Kind)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, 1, got.Offset)
		var list []briefly.Bookmark
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "1", list[0].ID)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		srv := brieflyhttp.NewServer(newTestPipeline(), &mock.BookmarkService{}, nil)

		rec := do(t, srv, http.MethodGet, "/api/bookmarks?kind=starred", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("toggle adds bookmark", func(t *testing.T) {
		t.Parallel()

		bookmarks := &mock.BookmarkService{
			ToggleBookmarkFn: func(ctx context.Context, b *briefly.Bookmark) (bool, error) {
				b.ID = "new-id"
				return true, nil
			},
		}
		srv := brieflyhttp.NewServer(newTestPipeline(), bookmarks, nil)

		rec := do(t, srv, http.MethodPost, "/api/bookmarks", `{"kind":"reading","url":"https://www.example.com/post"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		v := decode(t, rec)
		assert.Equal(t, true, v["added"])
		bookmark := v["bookmark"].(map[string]any)
		assert.Equal(t, "new-id", bookmark["id"])
		assert.Equal(t, "example.com", bookmark["siteName"])
	})

	t.Run("toggle removes bookmark", func(t *testing.T) {
		t.Parallel()

		bookmarks := &mock.BookmarkService{
			ToggleBookmarkFn: func(ctx context.Context, b *briefly.Bookmark) (bool, error) {
				return false, nil
			},
		}
		srv := brieflyhttp.NewServer(newTestPipeline(), bookmarks, nil)

		rec := do(t, srv, http.MethodPost, "/api/bookmarks", `{"kind":"reading","url":"https://example.com/post"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decode(t, rec)["added"])
	})

	t.Run("delete passes id", func(t *testing.T) {
		t.Parallel()

		var got string
		bookmarks := &mock.BookmarkService{
			DeleteBookmarkFn: func(ctx context.Context, id string) error {
				got = id
				return nil
			},
		}
		srv := brieflyhttp.NewServer(newTestPipeline(), bookmarks, nil)

		rec := do(t, srv, http.MethodDelete, "/api/bookmarks/abc", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "abc", got)
	})

	t.Run("delete missing is not found", func(t *testing.T) {
		t.Parallel()

		bookmarks := &mock.BookmarkService{
			DeleteBookmarkFn: func(ctx context.Context, id string) error {
				return briefly.Errorf(briefly.ENOTFOUND, "bookmark not found")
			},
		}
		srv := brieflyhttp.NewServer(newTestPipeline(), bookmarks, nil)

		rec := do(t, srv, http.MethodDelete, "/api/bookmarks/abc", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unavailable without service", func(t *testing.T) {
		t.Parallel()

		srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)

		rec := do(t, srv, http.MethodGet, "/api/bookmarks", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)

	rec := do(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	do(t, srv, http.MethodPost, "/api/extract", `{"html":"<body><p>x</p></body>","url":"https://example.com"}`)

	rec = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `briefly_http_requests_total{method="GET",route="GET /api/health",status="200"} 1`)
	assert.Contains(t, body, `briefly_articles_total{operation="extract",outcome="ok"} 1`)
}

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, brieflyhttp.ErrorStatusCode(briefly.EINVALID))
	assert.Equal(t, http.StatusNotFound, brieflyhttp.ErrorStatusCode(briefly.ENOTFOUND))
	assert.Equal(t, http.StatusConflict, brieflyhttp.ErrorStatusCode(briefly.ECONFLICT))
	assert.Equal(t, http.StatusUnauthorized, brieflyhttp.ErrorStatusCode(briefly.EUNAUTHORIZED))
	assert.Equal(t, http.StatusUnprocessableEntity, brieflyhttp.ErrorStatusCode(briefly.EMISSINGBODY))
	assert.Equal(t, http.StatusUnprocessableEntity, brieflyhttp.ErrorStatusCode(briefly.EINSUFFICIENT))
	assert.Equal(t, http.StatusInternalServerError, brieflyhttp.ErrorStatusCode(briefly.ELIVECOLLECTION))
	assert.Equal(t, http.StatusInternalServerError, brieflyhttp.ErrorStatusCode("unknown"))
}

func TestServer_Serve_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := brieflyhttp.NewServer(newTestPipeline(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
