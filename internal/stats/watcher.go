package stats

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/woodshedhq/woodshed/internal/events"
	"github.com/woodshedhq/woodshed/internal/shared"
	"golang.org/x/time/rate"
)

const DefaultRecomputeInterval = 250 * time.Millisecond

// Watcher recomputes a user's summary whenever practice history or
// goals change. A burst of events produces a bounded number of
// recomputes; the limiter spaces them out instead of running one per
// event.
type Watcher struct {
	service  *Service
	bus      *events.Bus
	userID   string
	limiter  *rate.Limiter
	logger   *log.Logger
	onUpdate func(*Summary)
}

func NewWatcher(service *Service, bus *events.Bus, userID string, onUpdate func(*Summary), logger *log.Logger) *Watcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Watcher{
		service:  service,
		bus:      bus,
		userID:   userID,
		limiter:  rate.NewLimiter(rate.Every(DefaultRecomputeInterval), 1),
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Run subscribes and recomputes until ctx is cancelled. It drains any
// events that queued up while waiting on the limiter, so consecutive
// session saves collapse into one recompute.
func (w *Watcher) Run(ctx context.Context) {
	sub := w.bus.Subscribe(events.SessionCreated, events.AnalyticsChanged, events.GoalsChanged)
	defer w.bus.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			drain(sub.C)
			w.recompute()
		}
	}
}

func (w *Watcher) recompute() {
	summary, err := w.service.Summarize(w.userID)
	if err != nil {
		w.logger.Error("failed to recompute stats", "error", err)
		return
	}
	if w.onUpdate != nil {
		w.onUpdate(summary)
	}
}

func drain(c chan events.Event) {
	for {
		select {
		case <-c:
		default:
			return
		}
	}
}
