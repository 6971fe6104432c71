/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"math"
	"sort"
)

// Standing is one team's line in the final table.
type Standing struct {
	TeamIndex  int    `json:"team_index"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Players    int    `json:"players"`
	RawCorrect int    `json:"raw_correct"`
	Score      int    `json:"score"`
	Rank       int    `json:"rank"`
}

// ComputeStandings ranks teams by correct answers. With equalize set, each
// team's count is scaled to the size of the largest team. Tied teams share
// a rank and the next lower score takes its list position, so [10 10 7]
// ranks as [1 1 3].
func ComputeStandings(teams []Team, results [][]WordResult, equalize bool) []Standing {
	largest := 0
	for _, t := range teams {
		largest = max(largest, len(t.Players))
	}

	out := make([]Standing, 0, len(teams))
	for i, t := range teams {
		correct := 0
		if i < len(results) {
			for _, r := range results[i] {
				if r.Outcome == OutcomeCorrect {
					correct++
				}
			}
		}

		score := correct
		if equalize && len(t.Players) > 0 {
			score = int(math.Round(float64(correct) / float64(len(t.Players)) * float64(largest)))
		}

		out = append(out, Standing{
			TeamIndex:  i,
			Name:       t.Name,
			Color:      t.Color,
			Players:    len(t.Players),
			RawCorrect: correct,
			Score:      score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}

	return out
}
