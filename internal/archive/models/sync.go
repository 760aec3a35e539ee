package models

// SyncMode selects the replication strategy.
type SyncMode int

const (
	// SyncModeFull replaces the whole local catalog from a remote snapshot.
	SyncModeFull SyncMode = iota

	// SyncModeIncremental is accepted for interface compatibility only. An
	// earlier since-timestamp strategy silently lost entries and was retired;
	// requests for it run as a full sync.
	SyncModeIncremental
)

func (m SyncMode) String() string {
	if m == SyncModeIncremental {
		return "incremental"
	}
	return "full"
}

// SyncResult reports one sync run. On failure the local store is guaranteed
// untouched and Err carries the cause.
type SyncResult struct {
	Success        bool
	SyncedCount    int
	OrphansRemoved int
	Err            error
}
