package ports

import "context"

// StateStore persists the serialized game state under a single fixed key.
type StateStore interface {
	// Load returns the last saved blob. present is false when nothing is stored, the backend
	// is unavailable, or the stored value is not parseable.
	Load(ctx context.Context) (blob []byte, present bool)

	// Save stores the blob. Failures (quota, unavailable backend) are swallowed; the caller's
	// in-memory state stays authoritative.
	Save(ctx context.Context, blob []byte)

	// Clear removes any stored blob.
	Clear(ctx context.Context)
}
