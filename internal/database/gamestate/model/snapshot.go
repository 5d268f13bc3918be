package model

import "time"

// Snapshot is the persisted form of one chat's game session. It is rewritten
// in full on every accepted action.
type Snapshot struct {
	ChatID int64 `json:"chatId"`

	Players          []int64       `json:"players"`
	TurnIndex        int           `json:"turnIndex"`
	Started          bool          `json:"started"`
	AwaitingResponse bool          `json:"awaitingResponse"`
	CurrentQuestion  string        `json:"currentQuestion"`
	CurrentCategory  string        `json:"currentCategory"`
	Rerolls          map[int64]int `json:"rerolls"`
	PromptRef        string        `json:"promptRef"`
	TurnToken        uint64        `json:"turnToken"`

	UpdatedAt time.Time `json:"updatedAt"`
}
