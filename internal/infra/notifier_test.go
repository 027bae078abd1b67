package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

func TestChannelNotifier_DeliversAndDropsWhenFull(t *testing.T) {
	n := NewChannelNotifier(1, zap.NewNop())

	n.Notify(context.Background(), domain.Notification{PassID: "one", FilesMoved: 2})
	n.Notify(context.Background(), domain.Notification{PassID: "two"})

	got := <-n.C()
	assert.Equal(t, "one", got.PassID)
	assert.Equal(t, 2, got.FilesMoved)
	select {
	case extra := <-n.C():
		t.Fatalf("unexpected notification %q", extra.PassID)
	default:
	}
}

type recordingNotifier struct {
	got []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.got = append(r.got, n)
}

func TestMultiNotifier_FansOut(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	multi := MultiNotifier{a, NewLogNotifier(zap.NewNop()), b}

	multi.Notify(context.Background(), domain.Notification{
		PassID:   "p",
		Failures: []domain.Failure{{Item: "x", Reason: domain.ReasonPermission}},
	})

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Equal(t, "x", b.got[0].Failures[0].Item)
}
