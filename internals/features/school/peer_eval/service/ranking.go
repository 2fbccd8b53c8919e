package service

import (
	"sort"

	"github.com/google/uuid"

	dto "kelasku_backend/internals/features/school/peer_eval/dto"
)

// Vote is one submitted evaluation reduced to its placement picks.
type Vote struct {
	FirstPlaceGroupID  uuid.UUID
	SecondPlaceGroupID uuid.UUID
}

// BuildGroupStats tallies placement votes into ranked rows. A first
// place pick is worth 2, a second place pick 1. Groups with equal
// totals share a rank (competition ranking), ties broken in display
// order by group number.
func BuildGroupStats(groups []dto.GroupOption, votes []Vote) []dto.GroupStat {
	firsts := make(map[uuid.UUID]int, len(groups))
	seconds := make(map[uuid.UUID]int, len(groups))
	for _, v := range votes {
		firsts[v.FirstPlaceGroupID]++
		seconds[v.SecondPlaceGroupID]++
	}

	stats := make([]dto.GroupStat, 0, len(groups))
	for _, g := range groups {
		f := firsts[g.GroupID]
		s := seconds[g.GroupID]
		stats = append(stats, dto.GroupStat{
			GroupID:          g.GroupID,
			GroupNumber:      g.GroupNumber,
			GroupName:        g.GroupName,
			FirstPlaceVotes:  f,
			SecondPlaceVotes: s,
			TotalScore:       f*2 + s,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalScore != stats[j].TotalScore {
			return stats[i].TotalScore > stats[j].TotalScore
		}
		return stats[i].GroupNumber < stats[j].GroupNumber
	})

	for i := range stats {
		if i > 0 && stats[i].TotalScore == stats[i-1].TotalScore {
			stats[i].Rank = stats[i-1].Rank
			continue
		}
		stats[i].Rank = i + 1
	}
	return stats
}
