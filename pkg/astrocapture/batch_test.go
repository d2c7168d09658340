package astrocapture_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam/camtest"
	"github.com/Asteroidea-tn/astrograb/pkg/astrocapture"
)

func TestRun_EmptyDeviceList(t *testing.T) {
	backend := camtest.NewBackend()
	runner := astrocapture.NewRunner(astrocapture.NewDispatcher(backend, t.TempDir(), testPolicy()))

	outcomes := runner.Run(context.Background(), nil)
	assert.Empty(t, outcomes)
}

func TestRun_FailureIsolation(t *testing.T) {
	backend := camtest.NewBackend()
	backend.AddStream("rtsp://cam/a", &camtest.Stream{Width: 64, Height: 48})
	backend.AddStream("rtsp://cam/c", &camtest.Stream{Width: 64, Height: 48})
	// cam/b is unreachable on purpose.

	runner := astrocapture.NewRunner(astrocapture.NewDispatcher(backend, t.TempDir(), testPolicy()))

	devices := []astrocapture.Device{
		{Name: "a", URL: "rtsp://cam/a", Format: astrocapture.FormatImage},
		{Name: "b", URL: "rtsp://cam/b", Format: astrocapture.FormatImage},
		{Name: "c", URL: "rtsp://cam/c", Format: astrocapture.FormatImage},
	}

	outcomes := runner.Run(context.Background(), devices)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "a", outcomes[0].Device)
	assert.Equal(t, "b", outcomes[1].Device)
	assert.Equal(t, "c", outcomes[2].Device)

	assert.Equal(t, astrocapture.StatusSuccess, outcomes[0].Status)
	assert.Equal(t, astrocapture.StatusOpenFailed, outcomes[1].Status)
	assert.Equal(t, astrocapture.StatusSuccess, outcomes[2].Status)

	succeeded, failed := astrocapture.Summarize(outcomes)
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, failed)
}

func TestRun_ConcurrentWorkersKeepInputOrder(t *testing.T) {
	backend := camtest.NewBackend()
	devices := make([]astrocapture.Device, 6)
	for i := range devices {
		name := string(rune('a' + i))
		url := "rtsp://cam/" + name
		backend.AddStream(url, &camtest.Stream{Width: 64, Height: 48})
		devices[i] = astrocapture.Device{Name: name, URL: url, Filename: name, Format: astrocapture.FormatImage}
	}

	runner := astrocapture.NewRunner(astrocapture.NewDispatcher(backend, t.TempDir(), testPolicy()))
	runner.Workers = 3

	outcomes := runner.Run(context.Background(), devices)
	require.Len(t, outcomes, len(devices))
	for i, outcome := range outcomes {
		assert.Equal(t, devices[i].Name, outcome.Device)
		assert.True(t, outcome.OK())
	}
}
