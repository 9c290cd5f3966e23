package stream

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// deltaSize is the approximate character length of one text_delta frame.
const deltaSize = 80

// Workflow produces an answer, its metadata payload, and an error. The
// observer it receives must be called for every stage transition.
type Workflow func(ctx context.Context, obs domain.TraceObserver) (answer string, metadata any, err error)

// Run executes fn and returns the ordered event channel. Trace events flow
// while stages run; the answer text is only known once fn returns, so every
// trace precedes every delta by construction. The channel is closed after
// done (or after the single error event). Client cancellation through ctx
// halts emission promptly.
func Run(ctx context.Context, fn Workflow) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		send := func(e Event) bool {
			select {
			case out <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		obs := domain.TraceObserver(func(te domain.TraceEvent) {
			e := te
			send(Event{Type: EventAgentTrace, Trace: &e})
		})

		answer, metadata, err := fn(ctx, obs)
		if err != nil {
			send(errorEvent(err))
			return
		}

		for _, delta := range splitDeltas(answer) {
			if !send(Event{Type: EventTextDelta, Delta: delta}) {
				return
			}
		}
		if !send(Event{Type: EventMetadata, Metadata: metadata}) {
			return
		}
		send(Event{Type: EventDone})
	}()

	return out
}

func errorEvent(err error) Event {
	e := Event{Type: EventError, Error: err.Error()}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		e.Retry = "the content store is temporarily unreachable, retry in a few seconds"
	}
	return e
}

// splitDeltas slices the answer into word-aligned frames of roughly
// deltaSize characters, preserving the original text when concatenated.
func splitDeltas(answer string) []string {
	if answer == "" {
		return nil
	}

	var deltas []string
	remaining := answer
	for len(remaining) > deltaSize {
		cut := strings.LastIndexByte(remaining[:deltaSize], ' ')
		if cut <= 0 {
			cut = deltaSize
			for cut > 0 && !utf8.RuneStart(remaining[cut]) {
				cut--
			}
			if cut == 0 {
				cut = deltaSize
			}
		} else {
			cut++ // keep the space with the leading frame
		}
		deltas = append(deltas, remaining[:cut])
		remaining = remaining[cut:]
	}
	if remaining != "" {
		deltas = append(deltas, remaining)
	}
	return deltas
}
