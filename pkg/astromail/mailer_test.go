package astromail_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocapture"
	"github.com/Asteroidea-tn/astrograb/pkg/astromail"
)

func TestEnabled(t *testing.T) {
	assert.False(t, astromail.New(astromail.Config{}).Enabled())
	assert.False(t, astromail.New(astromail.Config{Host: "smtp.example.com"}).Enabled())
	assert.True(t, astromail.New(astromail.Config{
		Host: "smtp.example.com",
		From: "cams@example.com",
		To:   "ops@example.com",
	}).Enabled())
}

func TestBuildReport(t *testing.T) {
	outcomes := []astrocapture.Outcome{
		{
			Device: "gate", Status: astrocapture.StatusSuccess,
			Path: "/srv/caps/20260828_120000_gate.jpg",
			Width: 1280, Height: 720, Elapsed: 250 * time.Millisecond,
		},
		{
			Device: "yard", Status: astrocapture.StatusOpenFailed,
			Err: errors.New("could not open stream"),
		},
	}

	report := astromail.BuildReport(outcomes)
	assert.Contains(t, report, "[gate] OK /srv/caps/20260828_120000_gate.jpg (1280x720")
	assert.Contains(t, report, "[yard] open_failed: could not open stream")
}
