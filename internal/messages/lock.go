package messages

// Lock messages for the working-tree lock.
const (
	LockOpenFmt    = "failed to open lock file %s: %w"
	LockAcquireFmt = "failed to lock %s: %w"
	LockHeldFmt    = "another upgrade is running in %s"
)
