package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"statdemo/app"
	"statdemo/domain/scenario"
	"statdemo/domain/stats"
	"statdemo/internal/config"
)

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNew_WiresService(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.TTestVariant = string(stats.Welch)

	c, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, stats.Welch, c.Runner.Variant())

	ctx := context.Background()
	res, err := c.Service.Compare(ctx, app.ComparisonRequest{Scenario: scenario.Symmetric, SampleSize: 50, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, stats.Welch, res.Report.TTestVariant)
	assert.Equal(t, 1, c.Cache.Len())

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	require.NoError(t, c.Shutdown(ctx))
	assert.Equal(t, 0, c.Cache.Len())
}

func TestNew_BuildsLoggerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"

	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Logger)
}
