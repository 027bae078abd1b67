package infra

import (
	"context"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

// LogNotifier reports pass digests to the log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the digest, one line per failure.
func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) {
	n.logger.Info("organize pass finished",
		zap.String("pass_id", note.PassID),
		zap.Int("files_moved", note.FilesMoved),
		zap.Int("failures", len(note.Failures)))
	for _, f := range note.Failures {
		n.logger.Warn("item not organized",
			zap.String("pass_id", note.PassID),
			zap.String("item", f.Item),
			zap.String("reason", f.Reason))
	}
}

// ChannelNotifier delivers digests on a buffered channel for a UI layer.
// When the buffer is full the digest is dropped rather than blocking a pass.
type ChannelNotifier struct {
	ch     chan domain.Notification
	logger *zap.Logger
}

// NewChannelNotifier creates a channel notifier with the given buffer size.
func NewChannelNotifier(buffer int, logger *zap.Logger) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan domain.Notification, buffer), logger: logger}
}

// C returns the receive side.
func (n *ChannelNotifier) C() <-chan domain.Notification {
	return n.ch
}

// Notify enqueues the digest without blocking.
func (n *ChannelNotifier) Notify(_ context.Context, note domain.Notification) {
	select {
	case n.ch <- note:
	default:
		n.logger.Debug("notification dropped, receiver is behind", zap.String("pass_id", note.PassID))
	}
}

// MultiNotifier fans a digest out to several notifiers in order.
type MultiNotifier []domain.Notifier

// Notify forwards note to every notifier.
func (m MultiNotifier) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range m {
		n.Notify(ctx, note)
	}
}

// Ensure notifiers implement domain.Notifier.
var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*ChannelNotifier)(nil)
	_ domain.Notifier = MultiNotifier(nil)
)
