package usecase

import (
	"errors"
	"net/http"
)

// mergeByID merges the pending-ledger entity set with the local-store set.
// Ledger entries represent the user's latest offline intent and win for any id
// they contain; local entries fill in the rest. Order: ledger first, then the
// surviving local entries.
func mergeByID[T any](pending, local []T, id func(T) int64) []T {
	shadowed := make(map[int64]struct{}, len(pending))
	for _, item := range pending {
		shadowed[id(item)] = struct{}{}
	}

	merged := make([]T, 0, len(pending)+len(local))
	merged = append(merged, pending...)
	for _, item := range local {
		if _, ok := shadowed[id(item)]; !ok {
			merged = append(merged, item)
		}
	}
	return merged
}

// isRemoteNotFound reports whether err is an HTTP 404 from the gateway.
func isRemoteNotFound(err error) bool {
	var httpErr interface{ StatusCode() int }
	return errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusNotFound
}
