package services

import "storefront/internal/models"

// applyNonEmpty copies a present, non-zero value into dst. Used for account
// fields that may never be blank, so "" in a patch keeps the stored value.
func applyNonEmpty[T comparable](dst *T, opt models.Optional[T]) bool {
	var zero T
	if v, ok := opt.Get(); ok && v != zero {
		*dst = v
		return true
	}
	return false
}

// applyPresent copies any present value into dst, zero values included.
func applyPresent[T any](dst *T, opt models.Optional[T]) bool {
	if v, ok := opt.Get(); ok {
		*dst = v
		return true
	}
	return false
}
