package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxRequestBodySize caps the size of JSON request bodies, page HTML
// included.
const MaxRequestBodySize = 20 << 20

// ShutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Server serves the local JSON API.
type Server struct {
	Pipeline  *briefly.Pipeline
	Bookmarks briefly.BookmarkService

	logger  *slog.Logger
	metrics *metrics
	handler http.Handler
}

// NewServer returns a server for pipeline and bookmarks. bookmarks may be
// nil, in which case the bookmark routes answer ENOTFOUND.
func NewServer(pipeline *briefly.Pipeline, bookmarks briefly.BookmarkService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Pipeline:  pipeline,
		Bookmarks: bookmarks,
		logger:    logger,
		metrics:   newMetrics(),
	}

	mux := http.NewServeMux()
	s.handle(mux, "GET /api/health", s.handleHealth)
	s.handle(mux, "POST /api/extract", s.handleExtract)
	s.handle(mux, "POST /api/summarize", s.handleSummarize)
	s.handle(mux, "POST /api/ask", s.handleAsk)
	s.handle(mux, "GET /api/bookmarks", s.handleFindBookmarks)
	s.handle(mux, "POST /api/bookmarks", s.handleToggleBookmark)
	s.handle(mux, "DELETE /api/bookmarks/{id}", s.handleDeleteBookmark)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.handler = mux

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handle registers h for pattern wrapped with logging and metrics. The
// pattern doubles as the route label.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(rw, r)
		elapsed := time.Since(begin)

		s.metrics.requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rw.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.Method, pattern).Observe(elapsed.Seconds())
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", elapsed,
		)
	}))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// pageRequest is the body of the extract, summarize and ask routes.
type pageRequest struct {
	HTML     string `json:"html"`
	URL      string `json:"url"`
	Question string `json:"question,omitempty"`
}

// articleResponse is the JSON form of an extracted article.
type articleResponse struct {
	Title       string `json:"title"`
	Byline      string `json:"byline"`
	Dir         string `json:"dir"`
	Content     string `json:"content"`
	TextContent string `json:"textContent"`
	Length      int    `json:"length"`
	WordCount   int    `json:"wordCount"`
	Excerpt     string `json:"excerpt"`
	SiteName    string `json:"siteName"`
	URL         string `json:"url"`
}

func newArticleResponse(a *briefly.Article) *articleResponse {
	if a == nil {
		return nil
	}
	return &articleResponse{
		Title:       a.Title,
		Byline:      a.Byline,
		Dir:         string(a.Direction),
		Content:     a.ContentHTML,
		TextContent: a.TextContent,
		Length:      a.Length,
		WordCount:   a.WordCount(),
		Excerpt:     a.Excerpt,
		SiteName:    a.SiteName,
		URL:         a.URL,
	}
}

type summarizeResponse struct {
	Article *articleResponse `json:"article"`
	briefly.Summary
}

type askResponse struct {
	Article *articleResponse `json:"article"`
	briefly.Answer
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, s.logger, err)
		return
	}

	article, err := s.Pipeline.ExtractHTML(req.HTML, req.URL)
	s.metrics.observeArticle("extract", articleLength(article), briefly.ErrorCode(err))
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newArticleResponse(article))
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, s.logger, err)
		return
	}

	article, summary, err := s.Pipeline.SummarizeHTML(r.Context(), req.HTML, req.URL)
	s.metrics.observeArticle("summarize", articleLength(article), briefly.ErrorCode(err))
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, &summarizeResponse{Article: newArticleResponse(article), Summary: *summary})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, s.logger, err)
		return
	}

	article, answer, err := s.Pipeline.AskHTML(r.Context(), req.HTML, req.URL, req.Question)
	s.metrics.observeArticle("ask", articleLength(article), briefly.ErrorCode(err))
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, &askResponse{Article: newArticleResponse(article), Answer: *answer})
}

func (s *Server) handleFindBookmarks(w http.ResponseWriter, r *http.Request) {
	if s.Bookmarks == nil {
		Error(w, r, s.logger, briefly.Errorf(briefly.ENOTFOUND, "bookmarks not available"))
		return
	}

	var filter briefly.BookmarkFilter
	q := r.URL.Query()
	if v := q.Get("kind"); v != "" {
		kind := briefly.BookmarkKind(v)
		if kind.Limit() == 0 {
			Error(w, r, s.logger, briefly.Errorf(briefly.EINVALID, "unknown bookmark kind %q", v))
			return
		}
		filter.Kind = &kind
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		Error(w, r, s.logger, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		Error(w, r, s.logger, err)
		return
	}

	bookmarks, err := s.Bookmarks.FindBookmarks(r.Context(), filter)
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

type toggleBookmarkRequest struct {
	Kind  briefly.BookmarkKind `json:"kind"`
	URL   string               `json:"url"`
	Title string               `json:"title"`
}

type toggleBookmarkResponse struct {
	Added    bool              `json:"added"`
	Bookmark *briefly.Bookmark `json:"bookmark"`
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	if s.Bookmarks == nil {
		Error(w, r, s.logger, briefly.Errorf(briefly.ENOTFOUND, "bookmarks not available"))
		return
	}

	var req toggleBookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, s.logger, err)
		return
	}

	b, err := briefly.NewBookmark(req.Kind, req.URL, req.Title)
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	added, err := s.Bookmarks.ToggleBookmark(r.Context(), b)
	if err != nil {
		Error(w, r, s.logger, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, &toggleBookmarkResponse{Added: added, Bookmark: b})
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if s.Bookmarks == nil {
		Error(w, r, s.logger, briefly.Errorf(briefly.ENOTFOUND, "bookmarks not available"))
		return
	}

	if err := s.Bookmarks.DeleteBookmark(r.Context(), r.PathValue("id")); err != nil {
		Error(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes the request body into v. Malformed or oversized
// bodies are EINVALID.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return briefly.Errorf(briefly.EINVALID, "request body required")
		}
		return briefly.Errorf(briefly.EINVALID, "invalid JSON body: %s", err)
	}
	return nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, briefly.Errorf(briefly.EINVALID, "invalid number %q", v)
	}
	return n, nil
}

func articleLength(a *briefly.Article) int {
	if a == nil {
		return 0
	}
	return a.Length
}
