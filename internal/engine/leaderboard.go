package engine

import (
	"math"
	"sort"

	"github.com/xaenox/teampulse/internal/models"
)

// Scoring policy. These are fixed and intentionally not configurable.
const (
	activityCeiling = 5.0
	speedCeiling    = 1.0

	activityWeight    = 0.4
	consistencyWeight = 0.3
	speedWeight       = 0.3
)

// Score computes the weighted leaderboard score of one behavior snapshot,
// rounded to three decimals. Consistency is taken as is: a value outside
// [0,1] moves the score outside [0,1] as well.
func Score(b models.BehaviorSnapshot) float64 {
	normActivity := math.Min(b.ActivityRate/activityCeiling, 1)
	normSpeed := math.Min(b.Speed/speedCeiling, 1)
	normConsistency := b.Consistency

	score := activityWeight*normActivity +
		consistencyWeight*normConsistency +
		speedWeight*normSpeed

	return round3(score)
}

// ScoreLeaderboard ranks users by score, highest first. Equal scores are
// ordered by user id ascending so the output never depends on map order.
func ScoreLeaderboard(users map[string]models.BehaviorSnapshot) []models.LeaderboardEntry {
	board := make([]models.LeaderboardEntry, 0, len(users))
	for user, behavior := range users {
		board = append(board, models.LeaderboardEntry{
			User:  user,
			Score: Score(behavior),
		})
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return board[i].User < board[j].User
	})

	return board
}

// TopN keeps the first n entries of a ranked board. n <= 0 keeps everything.
func TopN(board []models.LeaderboardEntry, n int) []models.LeaderboardEntry {
	if n <= 0 || n >= len(board) {
		return board
	}
	return board[:n]
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
