// Package cart owns the shopping cart: its lines, the applied voucher and
// the totals derived from them.
//
// Every mutation updates memory first and then hands a complete snapshot of
// the affected record to a single-writer queue. A failed write is reported
// through LastError and never rolls the in-memory cart back.
package cart
