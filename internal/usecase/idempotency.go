package usecase

import "github.com/oklog/ulid/v2"

// newMutationKey mints the Idempotency-Key that identifies one logical
// mutation. The key is minted before the first delivery attempt and persisted
// in the backup record, so a replay of a queued mutation carries the same key
// as the attempt that queued it.
func newMutationKey() string {
	return ulid.Make().String()
}
