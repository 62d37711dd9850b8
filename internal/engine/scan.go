package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/progress"
)

const defaultWorkers = 4

// ScanOptions tunes a single scan invocation.
type ScanOptions struct {
	Workers int
	Sink    progress.Sink
}

// Scan runs the scanner over files with a bounded worker pool and
// returns the raw matches sorted by (path, line, rule id), so output is
// reproducible regardless of which worker finishes first.
func (s *Scanner) Scan(ctx context.Context, files []model.FileRecord, opts ScanOptions) []Match {
	if opts.Sink == nil {
		opts.Sink = progress.NoopSink{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	if workers > len(files) {
		workers = len(files)
	}
	if len(files) == 0 {
		return nil
	}

	started := time.Now()
	opts.Sink.Emit(progress.Event{Type: progress.EventScanStarted, At: started, Files: len(files)})

	perFile := make([][]Match, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for idx, file := range files {
		wg.Add(1)
		go func(idx int, file model.FileRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			matches := s.ScanFile(file)
			perFile[idx] = matches
			opts.Sink.Emit(progress.Event{
				Type:    progress.EventFileScanned,
				At:      time.Now(),
				Path:    file.Path,
				Matches: len(matches),
			})
		}(idx, file)
	}
	wg.Wait()

	var out []Match
	for _, matches := range perFile {
		out = append(out, matches...)
	}
	SortMatches(out)

	completed := time.Now()
	opts.Sink.Emit(progress.Event{
		Type:       progress.EventScanFinished,
		At:         completed,
		Files:      len(files),
		Matches:    len(out),
		DurationMS: completed.Sub(started).Milliseconds(),
	})
	return out
}

// SortMatches orders matches by (file path, line number, rule id). The
// aggregator's first-seen-wins dedup and id sequencing depend on this
// ordering being scheduling-independent.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].FilePath != matches[j].FilePath {
			return matches[i].FilePath < matches[j].FilePath
		}
		if matches[i].LineNumber != matches[j].LineNumber {
			return matches[i].LineNumber < matches[j].LineNumber
		}
		return matches[i].Rule.ID < matches[j].Rule.ID
	})
}
