package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "kelasku_backend/internals/features/school/peer_eval/dto"
)

func groupOptions(n int) []dto.GroupOption {
	out := make([]dto.GroupOption, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, dto.GroupOption{GroupID: uuid.New(), GroupNumber: i})
	}
	return out
}

func TestBuildGroupStats(t *testing.T) {
	groups := groupOptions(3)

	// Group 1: two firsts. Group 2: one first + one second. Group 3: one second.
	votes := []Vote{
		{FirstPlaceGroupID: groups[0].GroupID, SecondPlaceGroupID: groups[1].GroupID},
		{FirstPlaceGroupID: groups[0].GroupID, SecondPlaceGroupID: groups[2].GroupID},
		{FirstPlaceGroupID: groups[1].GroupID, SecondPlaceGroupID: groups[2].GroupID},
	}

	stats := BuildGroupStats(groups, votes)
	require.Len(t, stats, 3)

	assert.Equal(t, groups[0].GroupID, stats[0].GroupID)
	assert.Equal(t, 4, stats[0].TotalScore) // 2 firsts
	assert.Equal(t, 1, stats[0].Rank)

	assert.Equal(t, groups[1].GroupID, stats[1].GroupID)
	assert.Equal(t, 3, stats[1].TotalScore) // 1 first + 1 second
	assert.Equal(t, 2, stats[1].Rank)

	assert.Equal(t, groups[2].GroupID, stats[2].GroupID)
	assert.Equal(t, 2, stats[2].TotalScore) // 2 seconds
	assert.Equal(t, 3, stats[2].Rank)
}

func TestBuildGroupStatsTiesShareRank(t *testing.T) {
	groups := groupOptions(3)

	votes := []Vote{
		{FirstPlaceGroupID: groups[0].GroupID, SecondPlaceGroupID: groups[1].GroupID},
		{FirstPlaceGroupID: groups[1].GroupID, SecondPlaceGroupID: groups[0].GroupID},
	}

	stats := BuildGroupStats(groups, votes)
	require.Len(t, stats, 3)

	// Groups 1 and 2 both score 3; the lower group number lists first
	// but both hold rank 1.
	assert.Equal(t, 1, stats[0].GroupNumber)
	assert.Equal(t, 1, stats[0].Rank)
	assert.Equal(t, 2, stats[1].GroupNumber)
	assert.Equal(t, 1, stats[1].Rank)
	assert.Equal(t, 3, stats[2].Rank)
	assert.Zero(t, stats[2].TotalScore)
}

func TestBuildGroupStatsNoVotes(t *testing.T) {
	groups := groupOptions(2)
	stats := BuildGroupStats(groups, nil)
	require.Len(t, stats, 2)
	for i, s := range stats {
		assert.Zero(t, s.TotalScore)
		assert.Equal(t, 1, s.Rank, "all-zero totals share rank 1")
		assert.Equal(t, i+1, s.GroupNumber)
	}
}
