package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/internal"
	"gobayes/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BAYES_NUM_SAMPLES", "BAYES_SEED", "BAYES_WORKERS", "BAYES_QUAD_REL_TOL", "BAYES_QUAD_MAX_PANELS", "PORT", "GIN_MODE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20000, cfg.Sampling.NumSamples)
	assert.Equal(t, uint64(42), cfg.Sampling.Seed)
	assert.Equal(t, 4, cfg.Sampling.Workers)
	assert.Equal(t, 1e-8, cfg.Quadrature.RelTol)
	assert.Equal(t, 2000, cfg.Quadrature.MaxPanels)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, internal.LogLevelInfo, cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BAYES_NUM_SAMPLES", "5000")
	t.Setenv("BAYES_SEED", "7")
	t.Setenv("BAYES_QUAD_REL_TOL", "1e-6")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Sampling.NumSamples)
	assert.Equal(t, uint64(7), cfg.Sampling.Seed)
	assert.Equal(t, 1e-6, cfg.Quadrature.RelTol)
	assert.Equal(t, internal.LogLevelDebug, cfg.Log.Level)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("BAYES_NUM_SAMPLES", "-3")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
