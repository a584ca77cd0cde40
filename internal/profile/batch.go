package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/talent-scout/internal/logger"
)

// Failure records why one candidate could not be aggregated.
type Failure struct {
	Handle string
	Err    error
}

func (f Failure) Error() string {
	return f.Handle + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}

// BuildAll aggregates every handle with at most concurrency builds in flight.
// A failing candidate does not cancel the others; its error is reported in
// the returned failures. Profiles and failures keep the order of handles.
// Duplicate handles (case-insensitive) are built once.
func (a *Aggregator) BuildAll(ctx context.Context, handles []string, concurrency int) ([]*CandidateProfile, []Failure) {
	handles = uniqueHandles(handles)
	if concurrency <= 0 {
		concurrency = 1
	}

	profiles := make([]*CandidateProfile, len(handles))
	errs := make([]error, len(handles))

	g := errgroup.Group{}
	g.SetLimit(concurrency)

	for i, handle := range handles {
		g.Go(func() error {
			profiles[i], errs[i] = a.Build(ctx, handle)
			return nil
		})
	}
	_ = g.Wait()

	built := make([]*CandidateProfile, 0, len(handles))
	var failures []Failure
	for i, handle := range handles {
		if errs[i] != nil {
			a.logger.Warn("candidate aggregation failed", logger.HandleField(handle), zap.Error(errs[i]))
			failures = append(failures, Failure{Handle: handle, Err: errs[i]})
			continue
		}
		built = append(built, profiles[i])
	}

	return built, failures
}

func uniqueHandles(handles []string) []string {
	seen := make(map[string]struct{}, len(handles))
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}
