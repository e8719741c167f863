package fetcher

import (
	"fmt"

	"github.com/Blimmp/miro-svg-dl/pkg/classify"
	"github.com/Blimmp/miro-svg-dl/pkg/config"
	"github.com/Blimmp/miro-svg-dl/pkg/errors"
	"github.com/Blimmp/miro-svg-dl/pkg/logger"
	"github.com/Blimmp/miro-svg-dl/pkg/miro"
	"github.com/Blimmp/miro-svg-dl/pkg/naming"
	"github.com/Blimmp/miro-svg-dl/pkg/probe"
	"github.com/Blimmp/miro-svg-dl/pkg/ratelimit"
	"github.com/Blimmp/miro-svg-dl/pkg/storage"
)

// Fetcher drives the whole pipeline for one board: enumerate items per
// type, classify, probe, name, save. Items are processed strictly one at a
// time; together with the shared rate limiter that makes exceeding the API
// ceiling structurally impossible.
type Fetcher struct {
	client   BoardClient
	resolver *probe.Resolver
	store    *storage.Manager
	names    *naming.NameSet
	config   *config.Config
	logger   logger.Logger
}

// New creates a Fetcher wired for a real run: one rate limiter shared by
// listing and probing, one storage manager for the output directory.
func New(cfg *config.Config) (*Fetcher, error) {
	log := logger.GetLogger()

	limiter := ratelimit.NewInterval(cfg.RateLimit.RequestsPerSecond)
	client := miro.NewClient(cfg.Miro.Token, cfg.Download.Timeout, limiter, log)
	if cfg.Miro.BaseURL != "" {
		client.SetBaseURL(cfg.Miro.BaseURL)
	}
	client.SetRetryPolicy(cfg.RateLimit.MaxRetries, cfg.RateLimit.RetryDelay)

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Fetcher{
		client:   client,
		resolver: probe.NewResolver(client, cfg.Download.URLMutations, log),
		store:    store,
		names:    naming.NewNameSet(),
		config:   cfg,
		logger:   log,
	}, nil
}

// ScanTypes returns the item types this run will enumerate
func (f *Fetcher) ScanTypes() []string {
	types := miro.DefaultScanTypes()
	if f.config.Download.IncludeDocuments {
		types = append(types, miro.ItemTypeDocument)
	}
	return types
}

// Run downloads every SVG discoverable on the board. Only an authentication
// failure aborts the run; every per-item or per-type failure is absorbed
// into the returned stats.
func (f *Fetcher) Run(boardID string) (*Stats, error) {
	stats := &Stats{}

	f.logger.InfoWithFields("starting board run", map[string]interface{}{
		"board_id":   boardID,
		"output_dir": f.store.OutputDir(),
		"scan_types": f.ScanTypes(),
	})

	for _, itemType := range f.ScanTypes() {
		if err := f.scanType(boardID, itemType, stats); err != nil {
			if errors.IsAuth(err) {
				f.logger.WithError(err).Error("authentication failed, aborting run")
				return stats, err
			}
			// Transient listing failure: this type is out, the rest of
			// the board is still worth scanning.
			f.logger.WarnWithFields("skipping item type after listing failures", map[string]interface{}{
				"item_type": itemType,
				"error":     err.Error(),
			})
			stats.SkippedTypes = append(stats.SkippedTypes, itemType)
		}
	}

	if f.config.Output.WriteManifest {
		if err := f.store.WriteManifest(); err != nil {
			f.logger.WithError(err).Warn("failed to write manifest")
		}
	}

	f.logger.InfoWithFields("board run complete", map[string]interface{}{
		"board_id": boardID,
		"scanned":  stats.Scanned,
		"saved":    stats.Saved,
		"misses":   stats.Misses,
	})

	return stats, nil
}

// scanType enumerates one item type and processes each yielded item
func (f *Fetcher) scanType(boardID, itemType string, stats *Stats) error {
	f.logger.DebugWithFields("scanning item type", map[string]interface{}{
		"board_id":  boardID,
		"item_type": itemType,
	})

	it := f.client.Items(boardID, itemType)
	for {
		item, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		stats.Scanned++
		f.processItem(boardID, item, stats)
	}
}

// processItem runs one item through classify, probe, name and save. All of
// its failure modes are per-item and absorbed into stats.
func (f *Fetcher) processItem(boardID string, item miro.Item, stats *Stats) {
	candidate, ok := classify.Classify(item)
	if !ok {
		return
	}
	stats.Candidates++

	result, err := f.resolver.Resolve(candidate)
	if err != nil {
		// ErrNoSVG is the expected outcome for most items; anything
		// else at this stage is per-item too and treated the same.
		stats.Misses++
		f.logger.DebugWithFields("no svg content for item", map[string]interface{}{
			"item_id":   candidate.ItemID,
			"item_type": candidate.ItemType,
		})
		return
	}

	name, original := f.names.Resolve(boardID, candidate)

	if err := f.store.SaveSVG(name, result.Content); err != nil {
		stats.WriteFailures++
		f.logger.ErrorWithFields("failed to write file", map[string]interface{}{
			"filename": name,
			"item_id":  candidate.ItemID,
			"error":    err.Error(),
		})
		return
	}

	stats.Saved++
	if original {
		stats.OriginalNames++
	} else {
		stats.GeneratedNames++
	}

	f.store.Record(storage.Entry{
		Filename:  name,
		ItemID:    candidate.ItemID,
		ItemType:  candidate.ItemType,
		SourceURL: result.SourceURL,
		Size:      int64(len(result.Content)),
	})

	f.logger.InfoWithFields("saved svg", map[string]interface{}{
		"filename":  name,
		"item_id":   candidate.ItemID,
		"item_type": candidate.ItemType,
		"size":      len(result.Content),
	})
}
