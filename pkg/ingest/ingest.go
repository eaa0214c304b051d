// Package ingest walks a directory tree, sanitizes matching files, and
// submits them to the context platform through a small worker pool.
// Per-file failures are retried once with a minimal payload before being
// counted as failed; a single bad file never aborts the run.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hexlockco/alembic/pkg/platform"
)

// ContextAdder submits one batch of documents to the context store.
type ContextAdder interface {
	AddContext(ctx context.Context, req platform.AddRequest) error
}

// Options controls which files an ingest run picks up.
type Options struct {
	// Extensions filters files by suffix (with leading dot, case
	// insensitive). Empty means every regular file.
	Extensions []string

	// Source labels the ingested documents in the context store.
	// Defaults to the directory base name.
	Source string

	// Workers is the number of concurrent submissions. Zero means the
	// default of 3.
	Workers uint
}

// Result tallies one ingest run.
type Result struct {
	Attempted int
	Ingested  int
	Failed    int

	// FailedFiles lists the relative paths that failed both attempts.
	FailedFiles []string
}

// Ingester submits files to the context platform.
type Ingester struct {
	adder ContextAdder
	log   *slog.Logger
}

// New returns an Ingester. The logger may be nil.
func New(adder ContextAdder, log *slog.Logger) *Ingester {
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{adder: adder, log: log}
}

// Dir ingests every matching file under root. Unreadable and empty files
// are skipped. Each file is first submitted with full metadata; if the
// platform rejects that payload, it is retried once with only the document
// content and source. Submissions run concurrently on opts.Workers workers.
func (i *Ingester) Dir(ctx context.Context, root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading ingest root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest root %q is not a directory", root)
	}

	source := opts.Source
	if source == "" {
		source = filepath.Base(root)
	}

	result := &Result{}
	p := newPool(ctx, i, source, opts.Workers, result)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			i.log.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !matchExtension(d.Name(), opts.Extensions) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		content, readErr := readSanitized(path)
		if readErr != nil {
			i.log.Warn("skipping unreadable file", "file", rel, "error", readErr)
			return nil
		}
		if strings.TrimSpace(content) == "" {
			return nil
		}

		result.Attempted++

		fi, statErr := d.Info()
		var modified string
		if statErr == nil {
			modified = strconv.FormatInt(fi.ModTime().UnixMilli(), 10)
		}

		p.submit(job{rel: rel, content: content, modified: modified})
		return nil
	})

	p.wait()

	if walkErr != nil {
		return result, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	return result, nil
}

// addOne tries the rich-metadata payload first, then the minimal fallback.
func (i *Ingester) addOne(ctx context.Context, source, name, content, modified string) error {
	err := i.adder.AddContext(ctx, platform.AddRequest{
		Documents:   []platform.Document{{Content: content}},
		Source:      name,
		ContextType: "resource",
		Scope:       "internal",
		Metadata: &platform.DocumentMetadata{
			FileName:     name,
			FileType:     "resource",
			LastModified: modified,
			FileSize:     int64(len(content)),
		},
	})
	if err == nil {
		return nil
	}

	i.log.Debug("retrying ingest with minimal metadata", "file", name, "error", err)

	retryErr := i.adder.AddContext(ctx, platform.AddRequest{
		Documents: []platform.Document{{Content: content}},
		Source:    source,
	})
	if retryErr != nil {
		return fmt.Errorf("ingest failed after fallback: %w", retryErr)
	}

	return nil
}

func readSanitized(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sanitize(string(raw)), nil
}

// Sanitize normalizes line endings to \n and strips control characters
// below 0x20 except newline and tab.
func Sanitize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		if r >= 0x20 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
