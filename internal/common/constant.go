// Package common contains shared constants and sentinel errors used across
// the service.
package common

import "time"

const (
	// ChallengeTTL is the lifetime of a ChallengeRecord from the moment it
	// is written (spec §3/§4.3).
	ChallengeTTL = 300 * time.Second

	// AuthEventsTopic is the audit event stream topic/channel name (spec §6).
	AuthEventsTopic = "auth-events"

	// ChallengeKeyPrefix namespaces challenge records in the backing store
	// (spec §6: "zkp:challenge:<uuid>").
	ChallengeKeyPrefix = "zkp:challenge:"
)
