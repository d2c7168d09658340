package astrocam_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
	"github.com/Asteroidea-tn/astrograb/pkg/astrocam/camtest"
)

func TestWaitFrame_ImmediateFrame(t *testing.T) {
	stream := &camtest.Stream{Width: 640, Height: 480}

	frame, err := astrocam.WaitFrame(context.Background(), stream, time.Second, time.Millisecond)
	require.NoError(t, err)
	defer frame.Close()

	w, h := frame.Dimensions()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestWaitFrame_FrameAfterRetries(t *testing.T) {
	stream := &camtest.Stream{Width: 320, Height: 240, NoFrameReads: 5}

	frame, err := astrocam.WaitFrame(context.Background(), stream, time.Second, time.Millisecond)
	require.NoError(t, err)
	defer frame.Close()

	w, _ := frame.Dimensions()
	assert.Equal(t, 320, w)
}

func TestWaitFrame_Timeout(t *testing.T) {
	stream := &camtest.Stream{NeverReady: true}
	timeout := 100 * time.Millisecond

	start := time.Now()
	_, err := astrocam.WaitFrame(context.Background(), stream, timeout, time.Millisecond)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, astrocam.ErrFrameTimeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+500*time.Millisecond)
}

func TestWaitFrame_StreamEndedResolvesImmediately(t *testing.T) {
	// Exhaust a one-frame stream so the wait only ever sees ErrStreamEnded.
	single := &camtest.Stream{Width: 1, Height: 1, MaxFrames: 1}
	f, err := single.ReadFrame()
	require.NoError(t, err)
	f.Close()

	start := time.Now()
	_, err = astrocam.WaitFrame(context.Background(), single, time.Second, time.Millisecond)
	require.ErrorIs(t, err, astrocam.ErrFrameTimeout)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitFrame_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := &camtest.Stream{NeverReady: true}
	_, err := astrocam.WaitFrame(ctx, stream, time.Second, 10*time.Millisecond)
	require.ErrorIs(t, err, astrocam.ErrFrameTimeout)
}
