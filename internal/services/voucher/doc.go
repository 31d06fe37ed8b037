// Package voucher resolves discount codes against a catalog and computes
// the discount they grant on a cart subtotal.
//
// Validation order is status, then expiry, then the order minimum, so a
// used voucher reports ErrVoucherUsed even when the cart is too small.
package voucher
