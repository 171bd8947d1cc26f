package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/metrics"
)

const archiveWriteTimeout = 5 * time.Second

// UnavailableEntry is an entry whose history could not be fetched. It is
// absent from every table of the same result.
type UnavailableEntry struct {
	EntryID int64  `json:"entry_id"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

type fetchOutcome struct {
	entryID int64
	history EntryHistory
	err     error
}

// fetchHistories loads every entry's history on a bounded pool and joins
// before returning. If ctx ends first the whole call fails with ctx.Err().
func (s *AnalyticsService) fetchHistories(ctx context.Context, ids []int64) (map[int64]EntryHistory, []UnavailableEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.fetchHistories")
	defer span.End()

	histories := make(map[int64]EntryHistory, len(ids))
	if len(ids) == 0 {
		return histories, nil, nil
	}

	workerCount := min(s.cfg.MaxWorkers, len(ids))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan fetchOutcome, len(ids))
	var workers sync.WaitGroup
	var submitErr error
	for _, id := range ids {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.fetchOne(ctx, id)
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit fetch task: %w", err)
			break
		}
	}

	workers.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		metrics.EntryFetchFailures.WithLabelValues("cancelled").Inc()
		return nil, nil, err
	}
	if submitErr != nil {
		return nil, nil, submitErr
	}

	var unavailable []UnavailableEntry
	for res := range results {
		if res.err == nil {
			histories[res.entryID] = res.history
			continue
		}
		reason := unavailableReason(res.err)
		metrics.EntryFetchFailures.WithLabelValues(reason).Inc()
		fetchErr := &gameweek.FetchError{EntryID: res.entryID, Err: res.err}
		s.logger.WarnContext(ctx, "entry history unavailable", "entry_id", res.entryID, "reason", reason, "error", fetchErr)
		unavailable = append(unavailable, UnavailableEntry{EntryID: res.entryID, Reason: reason, Err: fetchErr})
	}
	sort.Slice(unavailable, func(i, j int) bool { return unavailable[i].EntryID < unavailable[j].EntryID })

	return histories, unavailable, nil
}

func (s *AnalyticsService) fetchOne(ctx context.Context, entryID int64) fetchOutcome {
	if err := ctx.Err(); err != nil {
		return fetchOutcome{entryID: entryID, err: err}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	key := cache.Fingerprint{Kind: "history", Entries: []int64{entryID}}.Key()
	history, err := cache.Load(fetchCtx, s.cache, cache.TierHistory, key, func(loadCtx context.Context) (EntryHistory, bool, error) {
		h, err := s.history.FetchHistory(loadCtx, entryID)
		if err != nil {
			return EntryHistory{}, false, err
		}
		s.archiveHistory(loadCtx, h)
		return h, true, nil
	})
	return fetchOutcome{entryID: entryID, history: history, err: err}
}

// archiveHistory stores the raw payload. Failures are logged only.
func (s *AnalyticsService) archiveHistory(ctx context.Context, h EntryHistory) {
	if s.archive == nil || len(h.Raw) == 0 {
		return
	}

	sum := sha256.Sum256(h.Raw)
	snapshot := historyarchive.Snapshot{
		Source:      historyarchive.SourceFPL,
		EntryID:     h.EntryID,
		PayloadJSON: string(h.Raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   s.now().UTC(),
	}

	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveWriteTimeout)
	defer cancel()
	if err := s.archive.UpsertMany(archiveCtx, []historyarchive.Snapshot{snapshot}); err != nil {
		metrics.ArchiveWrites.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "archive history snapshot failed", "entry_id", h.EntryID, "error", err)
		return
	}
	metrics.ArchiveWrites.WithLabelValues("ok").Inc()
}

func unavailableReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ErrDependencyUnavailable):
		return ReasonUnavailable
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	default:
		return ReasonFetchFailed
	}
}
