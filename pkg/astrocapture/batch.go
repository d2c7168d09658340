package astrocapture

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Runner walks an ordered device list, captures each one, and collects
// one Outcome per device. Per-device failures are logged and isolated;
// the batch always runs to the end of the list.
type Runner struct {
	dispatcher *Dispatcher

	// Workers bounds how many devices run at once. Values below 2 keep
	// the classic one-at-a-time behavior. Each device owns its stream
	// handle and output file, so no coordination beyond the join is
	// needed, and outcomes are always reported in input order.
	Workers int
}

func NewRunner(dispatcher *Dispatcher) *Runner {
	return &Runner{dispatcher: dispatcher, Workers: 1}
}

// Run processes every device in order and returns their outcomes in the
// same order. An empty list is a no-op.
func (r *Runner) Run(ctx context.Context, devices []Device) []Outcome {
	if len(devices) == 0 {
		log.Info().Msg("no devices to capture, nothing to do")
		return nil
	}

	outcomes := make([]Outcome, len(devices))

	if r.Workers > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, r.Workers)
		for i, dev := range devices {
			wg.Add(1)
			go func(i int, dev Device) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				outcomes[i] = r.dispatcher.Capture(ctx, dev)
			}(i, dev)
		}
		wg.Wait()
	} else {
		for i, dev := range devices {
			outcomes[i] = r.dispatcher.Capture(ctx, dev)
		}
	}

	for _, outcome := range outcomes {
		logOutcome(outcome)
	}
	return outcomes
}

// Summarize counts successful and failed outcomes.
func Summarize(outcomes []Outcome) (succeeded, failed int) {
	for _, outcome := range outcomes {
		if outcome.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

func logOutcome(outcome Outcome) {
	if outcome.OK() {
		log.Info().
			Str("camera", outcome.Device).
			Str("path", outcome.Path).
			Int("width", outcome.Width).
			Int("height", outcome.Height).
			Int("frames", outcome.Frames).
			Dur("elapsed", outcome.Elapsed).
			Msg("capture saved")
		return
	}

	log.Error().
		Str("camera", outcome.Device).
		Str("status", outcome.Status.String()).
		Err(outcome.Err).
		Dur("elapsed", outcome.Elapsed).
		Msg("capture failed")
}
