package astroenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asteroidea-tn/astrograb/pkg/astroenv"
)

type settings struct {
	Name  string  `env:"ASTROENV_TEST_NAME,fallback"`
	Count int     `env:"ASTROENV_TEST_COUNT,7"`
	Flag  bool    `env:"ASTROENV_TEST_FLAG,false"`
	Rate  float64 `env:"ASTROENV_TEST_RATE,25"`

	Nested struct {
		Dir string `env:"ASTROENV_TEST_DIR,./out"`
	}
}

func TestLoad_Defaults(t *testing.T) {
	var cfg settings
	require.NoError(t, astroenv.Load(&cfg))

	assert.Equal(t, "fallback", cfg.Name)
	assert.Equal(t, 7, cfg.Count)
	assert.False(t, cfg.Flag)
	assert.Equal(t, 25.0, cfg.Rate)
	assert.Equal(t, "./out", cfg.Nested.Dir)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ASTROENV_TEST_NAME", "live")
	t.Setenv("ASTROENV_TEST_COUNT", "3")
	t.Setenv("ASTROENV_TEST_FLAG", "true")
	t.Setenv("ASTROENV_TEST_DIR", "/srv/captures")

	var cfg settings
	require.NoError(t, astroenv.Load(&cfg))

	assert.Equal(t, "live", cfg.Name)
	assert.Equal(t, 3, cfg.Count)
	assert.True(t, cfg.Flag)
	assert.Equal(t, "/srv/captures", cfg.Nested.Dir)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg struct {
		Key string `env:"ASTROENV_TEST_REQUIRED"`
	}
	err := astroenv.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASTROENV_TEST_REQUIRED")
}

func TestLoad_RejectsNonPointer(t *testing.T) {
	err := astroenv.Load(settings{})
	require.Error(t, err)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("ASTROENV_TEST_COUNT", "many")

	var cfg settings
	err := astroenv.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parse")
}
