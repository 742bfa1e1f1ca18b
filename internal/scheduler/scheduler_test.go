package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSchedulerRunsSweep(t *testing.T) {
	target := &countingSweeper{}
	s := New(target, time.Second, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}
