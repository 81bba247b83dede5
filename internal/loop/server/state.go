package server

import "sort"

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	Pauses   int
	seq      int // Used for deterministic tie-break when scores are equal
}

// HubState holds state shared by every session: the leaderboard and
// counters. Only the hub goroutine mutates it.
type HubState struct {
	TopScores   []TopScoreEntry
	GamesPlayed int
	limit       int
	nextSeq     int
}

// HubSnapshot is an immutable snapshot of the hub state for rendering.
type HubSnapshot struct {
	Players     int
	GamesPlayed int
	TopScores   []TopScoreEntry // Top N scores for leaderboard display
}

// NewHubState creates a hub state keeping the best limit scores.
func NewHubState(limit int) *HubState {
	return &HubState{limit: limit}
}

// AddResult records a finished game. Zero scores count as played but never
// reach the leaderboard.
func (h *HubState) AddResult(username string, score, pauses int) {
	h.GamesPlayed++
	if score <= 0 || h.limit <= 0 {
		return
	}
	h.nextSeq++
	h.TopScores = append(h.TopScores, TopScoreEntry{
		Username: username,
		Score:    score,
		Pauses:   pauses,
		seq:      h.nextSeq,
	})
	sort.SliceStable(h.TopScores, func(i, j int) bool {
		a, b := h.TopScores[i], h.TopScores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.seq < b.seq
	})
	if len(h.TopScores) > h.limit {
		h.TopScores = h.TopScores[:h.limit]
	}
}

// Snapshot copies the state for readers on other goroutines.
func (h *HubState) Snapshot(players int) *HubSnapshot {
	top := make([]TopScoreEntry, len(h.TopScores))
	copy(top, h.TopScores)
	return &HubSnapshot{
		Players:     players,
		GamesPlayed: h.GamesPlayed,
		TopScores:   top,
	}
}
