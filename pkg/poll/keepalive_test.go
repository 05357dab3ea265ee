package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/livejobs/pkg/schedule"
)

type fakePinger struct {
	calls atomic.Int32
	err   error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestKeepAlive_PingsOnSchedule(t *testing.T) {
	p := &fakePinger{}
	var stamped atomic.Int32
	k := NewKeepAlive(p, schedule.Every(10*time.Millisecond), nil, func(time.Time) { stamped.Add(1) })

	k.Start()
	k.Start()
	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	k.Stop()

	assert.False(t, k.LastPing().IsZero())
	assert.GreaterOrEqual(t, stamped.Load(), int32(2))

	calls := p.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, p.calls.Load())
}

func TestKeepAlive_FailureIsSilent(t *testing.T) {
	p := &fakePinger{err: errors.New("502")}
	called := false
	k := NewKeepAlive(p, nil, nil, func(time.Time) { called = true })

	k.PingNow()

	assert.Equal(t, int32(1), p.calls.Load())
	assert.True(t, k.LastPing().IsZero())
	assert.False(t, called)
}

func TestKeepAlive_StopWithoutStart(t *testing.T) {
	k := NewKeepAlive(&fakePinger{}, nil, nil, nil)
	assert.NotPanics(t, k.Stop)
}
