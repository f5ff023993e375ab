// Package model defines shared data types used across the price dashboard.
//
// Types mirror the JSON returned by the BazaarSetu backend under /api/v1.
//
// Conventions:
//   - Prices: float64 rupees per unit, never negative
//   - Dates: time.Time at UTC midnight for daily points
//   - Optional backend fields: pointers (nil = absent), translations: empty string = absent
package model
