package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametista-engine/ametista/engine/core"
)

func TestMetricsCountsTerminalStates(t *testing.T) {
	require.NoError(t, core.MetricsInitialize())

	loadedBefore, failedBefore, canceledBefore := core.MetricsLoads()

	core.MetricsLoadCompleted(12.5)
	core.MetricsLoadCompleted(7.5)
	core.MetricsLoadFailed()
	core.MetricsLoadCanceled()

	loaded, failed, canceled := core.MetricsLoads()
	assert.Equal(t, loadedBefore+2, loaded)
	assert.Equal(t, failedBefore+1, failed)
	assert.Equal(t, canceledBefore+1, canceled)
}

func TestMetricsBeforeInitializationAreSafe(t *testing.T) {
	// The singleton may already exist when other tests ran first; either
	// way recording must never panic.
	core.MetricsLoadCompleted(1.0)
	core.MetricsLoadFailed()
	core.MetricsLoadCanceled()
}
