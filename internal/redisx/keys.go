package redisx

import "time"

const (
	// Workspace slot: food:{namespace}:{slot} -> raw slot bytes
	KeySlot = "food:%s:%s"
	// Processed event: dedup:{consumer}:{event_id} -> "1"
	KeyDedup = "dedup:%s:%s"
)

var (
	// Idle workspaces expire; every write refreshes the TTL.
	TTLSlot  = 30 * 24 * time.Hour
	TTLDedup = 24 * time.Hour
)
