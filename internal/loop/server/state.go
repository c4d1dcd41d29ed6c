package server

import "sort"

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// Snapshot is an immutable view of the hub for rendering.
type Snapshot struct {
	Players   int             // Connected clients
	Flying    int             // Clients with a game running
	HighScore int             // Best score ever
	RecordBy  string          // Who set HighScore this run, empty if persisted earlier
	TopScores []TopScoreEntry // Best scores of connected clients, highest first
}

// rankTopScores sorts entries by score (ties by join order) and keeps the first n.
func rankTopScores(entries []TopScoreEntry, n int) []TopScoreEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].clientID < entries[j].clientID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
