package services

import "simple-invoice/internal/core/domain"

// authorize is the per-request ownership check. It runs at the top of
// every operation that touches an owned resource; ownership is never
// cached between requests.
func authorize(actorID, ownerID uint) error {
	if actorID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
