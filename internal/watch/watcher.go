// Package watch runs the periodic spread detection loop and suppresses
// repeat notifications while the same opportunity persists.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thekoalas/koalabot/internal/notify"
)

// DetectFunc runs one detection cycle and returns the rendered opportunity
// signature. The empty string means no opportunity.
type DetectFunc func(ctx context.Context) (string, error)

// Watcher owns one polling subscription per chat. Each subscription has its
// own timer and last-signature memory, so independent chats never share
// suppression state.
type Watcher struct {
	detect   DetectFunc
	sender   notify.Sender
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	subs map[int64]*subscription
}

// subscription is the state of one active watch: the handle to cancel its
// loop and the last signature it emitted.
type subscription struct {
	cancel  context.CancelFunc
	lastSig string
}

// New creates a Watcher that runs detect every interval for each started chat
// and delivers changed signatures through sender.
func New(detect DetectFunc, sender notify.Sender, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		detect:   detect,
		sender:   sender,
		interval: interval,
		logger:   logger.With(slog.String("component", "watcher")),
		subs:     make(map[int64]*subscription),
	}
}

// Start begins watching for the given chat. It returns false when a watch is
// already active for that chat, without touching the existing subscription —
// there is never more than one loop per chat. On a fresh start one detection
// cycle runs immediately, before the periodic timer arms, so the operator
// gets instant feedback.
func (w *Watcher) Start(ctx context.Context, chatID int64) bool {
	w.mu.Lock()
	if _, ok := w.subs[chatID]; ok {
		w.mu.Unlock()
		return false
	}
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel}
	w.subs[chatID] = sub
	w.mu.Unlock()

	w.logger.Info("watch started", slog.Int64("chat_id", chatID))
	go w.run(subCtx, chatID, sub)
	return true
}

// Stop cancels the watch for the given chat, dropping its signature memory.
// It returns false when no watch is active (idempotent, no side effects).
func (w *Watcher) Stop(chatID int64) bool {
	w.mu.Lock()
	sub, ok := w.subs[chatID]
	if ok {
		delete(w.subs, chatID)
	}
	w.mu.Unlock()

	if !ok {
		return false
	}
	sub.cancel()
	w.logger.Info("watch stopped", slog.Int64("chat_id", chatID))
	return true
}

// Active reports whether a watch is currently running for the chat.
func (w *Watcher) Active(chatID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.subs[chatID]
	return ok
}

// run is the per-subscription loop: one immediate cycle, then one cycle per
// tick. Cycles are serialized by construction — a tick that fires while a
// cycle is still in flight is absorbed by the ticker rather than overlapping.
func (w *Watcher) run(ctx context.Context, chatID int64, sub *subscription) {
	w.cycle(ctx, chatID, sub)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cycle(ctx, chatID, sub)
		}
	}
}

// cycle runs one detection and applies the change-suppression rules: a
// signature equal to the last one is never re-announced, a changed non-empty
// signature is delivered, and a transition to empty updates memory silently.
func (w *Watcher) cycle(ctx context.Context, chatID int64, sub *subscription) {
	sig, err := w.detect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.WarnContext(ctx, "detection cycle failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.mu.Lock()
	if w.subs[chatID] != sub {
		// Stopped while this cycle was in flight; the result must not re-arm
		// notification state.
		w.mu.Unlock()
		return
	}
	changed := sig != sub.lastSig
	sub.lastSig = sig
	w.mu.Unlock()

	if !changed || sig == "" {
		return
	}

	if err := w.sender.SendTo(ctx, chatID, sig); err != nil {
		w.logger.ErrorContext(ctx, "notification failed",
			slog.Int64("chat_id", chatID),
			slog.String("sender", w.sender.Name()),
			slog.String("error", err.Error()),
		)
	}
}
