package model

// Player is a participant identified by the ID the client sends.
type Player struct {
	ID string
}

// MatchFoundEvent tells a queued player which game they were paired into.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Side   `json:"color"`
}
