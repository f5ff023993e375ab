// Package pricing filters and orders price listings.
//
// Apply is synchronous and pure: it never mutates its input and never fails.
// Filters are conjunctive:
//   - state: exact StateID match when set
//   - category: explicit or classified category equals the selection when not "all"
//   - search: case-insensitive substring of the commodity or market name when non-blank
//
// Sorting is stable, so records with equal keys keep their fetch order.
package pricing
