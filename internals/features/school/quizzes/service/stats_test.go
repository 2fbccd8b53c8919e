package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]int{80, 95, 62}, 5)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 79.0, stats.Average, 0.001)
	assert.Equal(t, 95, stats.Max)
	assert.Equal(t, 62, stats.Min)
	assert.Equal(t, 5, stats.TotalStudents)
	assert.Equal(t, 3, stats.GradedStudents)
}

func TestComputeStatsRoundsAverage(t *testing.T) {
	stats := ComputeStats([]int{1, 2}, 2)
	require.NotNil(t, stats)
	assert.InDelta(t, 1.5, stats.Average, 0.001)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Nil(t, ComputeStats(nil, 10))
	assert.Nil(t, ComputeStats([]int{}, 10))
}
