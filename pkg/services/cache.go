package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"site-content/pkg/content"
	"site-content/pkg/logger"
	"site-content/pkg/models"
)

// EntryCache loads every entry under a content root once and serves it until invalidated.
type EntryCache struct {
	reg         *content.Registry
	root        string
	concurrency int
	log         logger.Logger

	mu      sync.Mutex
	entries []models.Entry
	loaded  bool
}

func NewEntryCache(reg *content.Registry, root string, concurrency int, log logger.Logger) *EntryCache {
	return &EntryCache{reg: reg, root: root, concurrency: concurrency, log: log}
}

func (c *EntryCache) Root() string {
	return c.root
}

func (c *EntryCache) Registry() *content.Registry {
	return c.reg
}

// Entries returns the cached entries, loading them on first use.
func (c *EntryCache) Entries(ctx context.Context) ([]models.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.entries, nil
	}

	entries, err := LoadEntries(ctx, c.reg, c.root, c.concurrency, c.log)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	c.loaded = true
	return c.entries, nil
}

func (c *EntryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.entries = nil
}

// LoadEntries walks root/<collection>/ for every registered collection and
// validates each content file. Directories that are not collections are
// skipped with a warning, as are files and directories starting with "_" or ".".
func LoadEntries(ctx context.Context, reg *content.Registry, root string, concurrency int, log logger.Logger) ([]models.Entry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read content root: %w", err)
	}

	var paths []string
	for _, d := range dirs {
		if !d.IsDir() || ignored(d.Name()) {
			continue
		}
		if !reg.Has(d.Name()) {
			log.Warn("Skipping directory that is not a registered collection",
				logger.String("dir", d.Name()),
				logger.Strings("collections", reg.Names()),
			)
			continue
		}
		err := filepath.WalkDir(filepath.Join(root, d.Name()), func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ignored(entry.Name()) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !isContentFile(entry.Name()) {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			paths = append(paths, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk collection %s: %w", d.Name(), err)
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}
	entries := make([]models.Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := ReadEntry(reg, root, rel)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markDirty(ctx, root, entries, log)
	sortEntries(entries)

	for _, e := range entries {
		for _, issue := range e.Issues {
			log.Warn("Invalid content entry",
				logger.String("collection", e.Collection),
				logger.String("path", e.Path),
				logger.String("kind", issue.Kind),
				logger.String("field", issue.Field),
				logger.String("message", issue.Message),
			)
		}
	}
	log.Info("Loaded content entries",
		logger.String("root", root),
		logger.Int("total", len(entries)),
		logger.Int("invalid", Summarize(entries).Invalid),
	)
	return entries, nil
}

func ignored(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// markDirty flags entries with uncommitted git changes. Outside a git checkout it does nothing.
func markDirty(ctx context.Context, root string, entries []models.Entry, log logger.Logger) {
	top, err := gitTopLevel(ctx, root)
	if err != nil {
		return
	}
	dirty, err := gitDirtyFiles(ctx, top)
	if err != nil {
		log.Debug("git status failed", logger.Error(err))
		return
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	for i := range entries {
		rel, err := filepath.Rel(top, filepath.Join(absRoot, filepath.FromSlash(entries[i].Path)))
		if err != nil {
			continue
		}
		entries[i].IsDirty = dirty[filepath.ToSlash(rel)]
	}
}

// sortEntries orders by collection, then newest date first, then slug.
func sortEntries(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		da, okA := a.Data["date"].(time.Time)
		db, okB := b.Data["date"].(time.Time)
		if okA && okB && !da.Equal(db) {
			return da.After(db)
		}
		if okA != okB {
			return okA
		}
		return a.Slug < b.Slug
	})
}

// Filter selects entries by collection and published flag. Zero values match everything.
type Filter struct {
	Collection string
	Published  *bool
}

func FilterEntries(entries []models.Entry, f Filter) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Collection != "" && e.Collection != f.Collection {
			continue
		}
		if f.Published != nil {
			published, ok := e.Data["published"].(bool)
			if !ok || published != *f.Published {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func Summarize(entries []models.Entry) models.Summary {
	s := models.Summary{Total: len(entries)}
	for _, e := range entries {
		if !e.Valid() {
			s.Invalid++
		}
	}
	return s
}
