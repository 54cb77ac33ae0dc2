package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
	"gopkg.in/yaml.v3"
)

// Ensure FileStore implements briefly.PageStore at compile time.
var _ briefly.PageStore = (*FileStore)(nil)

// FileStore implements briefly.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string

	// Now returns the date written to each page. Defaults to time.Now.
	Now func() time.Time
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *FileStore) Save(ctx context.Context, page *briefly.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatPage(page, s.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// frontmatter is the YAML header written above each page.
type frontmatter struct {
	Source string `yaml:"source"`
	Title  string `yaml:"title"`
	Site   string `yaml:"site,omitempty"`
	Byline string `yaml:"byline,omitempty"`
	Saved  string `yaml:"saved"`
}

// FormatPage formats a page with YAML frontmatter dated at.
func FormatPage(page *briefly.Page, at time.Time) (string, error) {
	header, err := yaml.Marshal(&frontmatter{
		Source: page.URL,
		Title:  page.Title,
		Site:   page.SiteName,
		Byline: page.Byline,
		Saved:  at.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Content)
	return b.String(), nil
}

func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
