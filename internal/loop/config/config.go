// Package config centralizes all tunable loop parameters.
package config

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Hub tick rate. The hub only folds registrations and score reports, so it
// runs much slower than the clients.
const (
	HubTickRate = 10
	HubTickTime = time.Second / HubTickRate
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownWaitTimeout    = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Leaderboard
const (
	TopScoresShown    = 5
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Sessions
const (
	MaxSessions = 64 // Concurrent games per process, across SSH and web
)
