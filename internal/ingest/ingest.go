// Package ingest turns files on disk into stored documents.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/progress"
)

var (
	ErrBinary   = errors.New("binary file")
	ErrTooLarge = errors.New("file too large")
	ErrEmpty    = errors.New("no text content")
)

// DocumentCreator persists documents. *documents.Store implements it.
type DocumentCreator interface {
	Create(ctx context.Context, d documents.Document) (*documents.Document, error)
}

// Options control how files become documents.
type Options struct {
	// Type forces the document type. Empty means infer from the filename,
	// falling back to "other".
	Type string
	// IngestedAt overrides the ingestion time. Zero means now.
	IngestedAt  time.Time
	MaxFileSize int64
}

// Skipped records a file that was not ingested.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result summarizes an ingestion run.
type Result struct {
	Created []documents.Document `json:"created"`
	Skipped []Skipped            `json:"skipped"`
}

// Ingester reads files and stores them as documents.
type Ingester struct {
	store    DocumentCreator
	reporter progress.Reporter
}

// New creates an Ingester. A nil reporter discards progress.
func New(store DocumentCreator, reporter progress.Reporter) *Ingester {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Ingester{store: store, reporter: reporter}
}

// Files ingests each path. Unreadable, binary and empty files are skipped
// and reported in the result; a store failure or a done ctx aborts the run.
func (in *Ingester) Files(ctx context.Context, paths []string, opts Options) (*Result, error) {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	res := &Result{}
	in.reporter.Start(len(paths))
	defer in.reporter.Finish()

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		in.reporter.Update(i+1, filepath.Base(path))

		content, err := readText(path, maxSize)
		if err == nil && strings.TrimSpace(content) == "" {
			err = ErrEmpty
		}
		if err != nil {
			log.Printf("ingest: skipping %s: %v", path, err)
			res.Skipped = append(res.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}

		doc, err := in.store.Create(ctx, documents.Document{
			Type:       resolveType(opts.Type, path),
			Filename:   filepath.Base(path),
			Content:    content,
			IngestedAt: opts.IngestedAt,
		})
		if err != nil {
			return res, fmt.Errorf("ingest: storing %s: %w", path, err)
		}
		res.Created = append(res.Created, *doc)
	}
	return res, nil
}

func resolveType(forced, path string) documents.Type {
	if strings.TrimSpace(forced) != "" {
		return documents.ParseType(forced)
	}
	if info, _ := ParseFilename(path); info.HasType {
		return info.Type
	}
	return documents.TypeOther
}
