package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/logger"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/merge"
)

// Ensure IndexService implements the interface.
var _ driving.IndexerService = (*IndexService)(nil)

const (
	// defaultBatchSize is the number of full texts sent per embedding call.
	defaultBatchSize = 32

	// runHistoryKeep bounds the index-run bookkeeping table.
	runHistoryKeep = 50

	// watchDebounce is how long the archive must stay quiet after a change
	// before a rebuild starts. Mail clients write messages in bursts.
	watchDebounce = 2 * time.Second
)

// IndexConfig carries the scalar knobs of an index build.
type IndexConfig struct {
	// ArchiveDir is the mail archive root, used by Watch.
	ArchiveDir string

	// VectorPath is where the vector index is persisted after a build.
	// Empty disables persistence.
	VectorPath string

	// Workers sizes the extraction pool. Zero means one per CPU.
	Workers int

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// RateLimit caps embedding requests per second. Zero means unlimited.
	RateLimit float64
}

// IndexService builds the record and vector indexes from the mail archive.
type IndexService struct {
	source    driven.MailSource
	extractor driven.Extractor
	records   driven.RecordStore
	vectors   driven.VectorIndex
	embedder  driven.EmbeddingService
	runs      driven.IndexRunStore

	cfg     IndexConfig
	limiter *rate.Limiter

	building atomic.Bool
}

// NewIndexService creates an index service. The embedder and runs stores
// are optional: without an embedder the build produces no vectors, and
// without a run store no build history is kept.
func NewIndexService(
	source driven.MailSource,
	extractor driven.Extractor,
	records driven.RecordStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	runs driven.IndexRunStore,
	cfg IndexConfig,
) *IndexService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &IndexService{
		source:    source,
		extractor: extractor,
		records:   records,
		vectors:   vectors,
		embedder:  embedder,
		runs:      runs,
		cfg:       cfg,
		limiter:   limiter,
	}
}

// BuildIndex runs one full pass over the archive: extract in parallel,
// merge sequentially, embed in batches, persist. Individual malformed
// messages are counted and skipped; a missing archive aborts the run.
func (s *IndexService) BuildIndex(ctx context.Context, opts domain.IndexOptions) (domain.IndexSummary, error) {
	if !s.building.CompareAndSwap(false, true) {
		return domain.IndexSummary{}, domain.ErrIndexInProgress
	}
	defer s.building.Store(false)

	started := time.Now()
	logger.Section("Index Build")

	records, summary, err := s.extractRecords(ctx, s.effectiveWorkers(opts))
	if err != nil {
		return summary, err
	}

	canonical := merge.Merge(records)
	summary.Records = len(canonical)
	logger.Info("Merged %d messages into %d canonical records", len(records), len(canonical))

	ids, vecs, err := s.embedRecords(ctx, canonical)
	if err != nil {
		return summary, err
	}
	summary.Vectors = len(ids)

	if err := s.persist(ctx, canonical, ids, vecs); err != nil {
		return summary, err
	}

	logger.Info("Index build complete: %d messages, %d failures, %d records, %d vectors",
		summary.MessagesSeen, summary.Failed, summary.Records, summary.Vectors)

	s.recordRun(ctx, started, summary)
	return summary, nil
}

// Watch builds the index once, then rebuilds whenever the archive changes
// and stays quiet for the debounce window. Returns when ctx is cancelled.
func (s *IndexService) Watch(ctx context.Context, opts domain.IndexOptions) error {
	if s.cfg.ArchiveDir == "" {
		return fmt.Errorf("%w: no archive directory configured", domain.ErrArchiveUnavailable)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, s.cfg.ArchiveDir); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrArchiveUnavailable, err)
	}

	if _, err := s.BuildIndex(ctx, opts); err != nil {
		return err
	}

	logger.Info("Watching %s for changes", s.cfg.ArchiveDir)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			logger.Debug("Archive change: %s", ev)
			if ev.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := watcher.Add(ev.Name); addErr != nil {
						logger.Warn("Failed to watch new directory %s: %v", ev.Name, addErr)
					}
				}
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", watchErr)

		case <-timer.C:
			logger.Info("Archive changed, rebuilding index")
			if _, err := s.BuildIndex(ctx, opts); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("Rebuild failed: %v", err)
			}
		}
	}
}

// sequenced pairs an extracted record with its archive position so the
// collector can restore arrival order after parallel extraction.
type sequenced struct {
	seq int
	rec domain.Record
}

// extractRecords streams the archive through the extraction pool and
// returns the records in arrival order.
func (s *IndexService) extractRecords(ctx context.Context, workers int) ([]domain.Record, domain.IndexSummary, error) {
	var summary domain.IndexSummary

	logger.Debug("Extraction pool: %d workers", workers)
	mails, errs := s.source.Messages(ctx)

	var (
		seen    atomic.Int64
		failed  atomic.Int64
		results = make(chan sequenced, workers)
	)

	// Per-message source failures are skipped; only a missing archive is
	// fatal. The channel must be drained either way.
	var archiveErr error
	errsDone := make(chan struct{})
	go func() {
		defer close(errsDone)
		for err := range errs {
			if errors.Is(err, domain.ErrArchiveUnavailable) {
				if archiveErr == nil {
					archiveErr = err
				}
				continue
			}
			failed.Add(1)
			logger.Debug("Skipping message: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for raw := range mails {
				seen.Add(1)
				rec, err := s.extractor.Extract(gctx, raw)
				if err != nil {
					failed.Add(1)
					logger.Debug("Extraction failed: %v", err)
					continue
				}
				select {
				case results <- sequenced{seq: raw.Seq, rec: rec}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	collected := make([]sequenced, 0, 64)
	for item := range results {
		collected = append(collected, item)
	}

	err := g.Wait()
	<-errsDone

	summary.MessagesSeen = int(seen.Load())
	summary.Failed = int(failed.Load())

	if err != nil {
		return nil, summary, err
	}
	if archiveErr != nil {
		return nil, summary, archiveErr
	}

	sort.Slice(collected, func(a, b int) bool { return collected[a].seq < collected[b].seq })
	records := make([]domain.Record, len(collected))
	for n, item := range collected {
		records[n] = item.rec
	}

	logger.Debug("Extracted %d records (%d messages failed)", len(records), summary.Failed)
	return records, summary, nil
}

// embedRecords turns each record's full text into a vector. Failed batches
// are logged and skipped so an unreachable embedding service degrades the
// build to exact search instead of aborting it.
func (s *IndexService) embedRecords(ctx context.Context, records []domain.Record) ([]string, [][]float32, error) {
	if s.embedder == nil {
		logger.Info("No embedding service configured, skipping vectors")
		return nil, nil, nil
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	logger.Debug("Embedding %d records in batches of %d with %s",
		len(records), s.cfg.BatchSize, s.embedder.ModelName())

	var (
		ids  []string
		vecs [][]float32
	)
	for start := 0; start < len(records); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, nil, err
			}
		}

		texts := make([]string, 0, end-start)
		for n := start; n < end; n++ {
			texts = append(texts, records[n].FullText())
		}

		embedded, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			logger.Warn("Embedding batch %d-%d failed: %v", start, end, err)
			continue
		}
		if len(embedded) != len(texts) {
			logger.Warn("Embedding batch %d-%d returned %d vectors for %d texts, skipping",
				start, end, len(embedded), len(texts))
			continue
		}

		for n := range embedded {
			ids = append(ids, records[start+n].ID)
			vecs = append(vecs, embedded[n])
		}
	}

	return ids, vecs, nil
}

// persist swaps the record set and rebuilds the vector index to match.
// Record IDs are assigned per build, so every previous vector is stale.
func (s *IndexService) persist(ctx context.Context, records []domain.Record, ids []string, vecs [][]float32) error {
	var previousIDs []string
	if s.vectors != nil {
		previous, err := s.records.All(ctx)
		if err != nil {
			return fmt.Errorf("load previous records: %w", err)
		}
		previousIDs = make([]string, len(previous))
		for n := range previous {
			previousIDs[n] = previous[n].ID
		}
	}

	if err := s.records.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("store records: %w", err)
	}

	if s.vectors == nil {
		return nil
	}

	if err := s.vectors.Delete(previousIDs); err != nil {
		return fmt.Errorf("clear vector index: %w", err)
	}
	if len(ids) > 0 {
		if err := s.vectors.Add(ids, vecs); err != nil {
			return fmt.Errorf("add vectors: %w", err)
		}
	}
	if s.cfg.VectorPath != "" {
		if err := s.vectors.Save(s.cfg.VectorPath); err != nil {
			return fmt.Errorf("save vector index: %w", err)
		}
	}
	return nil
}

// Runs returns the most recent completed builds, newest first.
func (s *IndexService) Runs(ctx context.Context, limit int) ([]domain.IndexRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("%w: no run history store", domain.ErrStoreUnavailable)
	}
	return s.runs.Runs(ctx, limit)
}

// recordRun appends the build to the run history and prunes old entries.
// Bookkeeping is best effort: a failure here never fails the build.
func (s *IndexService) recordRun(ctx context.Context, started time.Time, summary domain.IndexSummary) {
	if s.runs == nil {
		return
	}

	run := domain.IndexRun{StartedAt: started, EndedAt: time.Now(), Summary: summary}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		logger.Warn("Failed to record index run: %v", err)
		return
	}
	if err := s.runs.PruneRuns(ctx, runHistoryKeep); err != nil {
		logger.Warn("Failed to prune index run history: %v", err)
	}
}

func (s *IndexService) effectiveWorkers(opts domain.IndexOptions) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.NumCPU()
}

// watchTree registers root and every non-hidden subdirectory with the
// watcher. fsnotify watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
