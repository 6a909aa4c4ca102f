package media

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
)

// Failure is a file that could not be uploaded.
type Failure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// BatchResult holds whatever finished before the batch returned.
type BatchResult struct {
	Uploaded []Result
	Failed   []Failure
	// TimedOut is set when the safety timeout fired with uploads still running.
	TimedOut bool
}

// BatchOptions tune UploadBatch. Zero values take the defaults.
type BatchOptions struct {
	Limit   int
	Timeout time.Duration
}

// UploadBatch uploads files concurrently. Individual failures do not stop
// the batch. When the safety timeout fires the results gathered so far are
// returned; uploads still in flight keep running and their results are
// dropped.
func (s *Selector) UploadBatch(ctx context.Context, files []File, dir string, opts BatchOptions) BatchResult {
	limit := opts.Limit
	if limit <= 0 {
		limit = constants.DefaultUploadLimit
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.UploadSafetyTimeout
	}

	var (
		mu  sync.Mutex
		out BatchResult
	)
	done := make(chan struct{})

	go func() {
		defer close(done)
		var g errgroup.Group
		g.SetLimit(limit)
		for _, f := range files {
			g.Go(func() error {
				res, err := s.Upload(ctx, f, dir)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					out.Failed = append(out.Failed, Failure{Name: f.Name, Err: err})
					return nil
				}
				out.Uploaded = append(out.Uploaded, res)
				return nil
			})
		}
		_ = g.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	timedOut := false
	select {
	case <-done:
	case <-timer.C:
		timedOut = true
		logger.Warn("Upload batch timed out, returning partial results", "files", len(files), "timeout", timeout)
	}

	mu.Lock()
	defer mu.Unlock()
	snapshot := BatchResult{
		Uploaded: append([]Result(nil), out.Uploaded...),
		Failed:   append([]Failure(nil), out.Failed...),
		TimedOut: timedOut,
	}
	return snapshot
}
