package model

import "time"

// Entry is one player's accumulated score. Seq records the order in which
// players first scored and breaks leaderboard ties deterministically.
type Entry struct {
	UserID    int64     `json:"userID"`
	Score     int       `json:"score"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updatedAt"`
}
