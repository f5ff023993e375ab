// Package store reads states, markets and prices straight from the price
// backend's PostgreSQL tables. It returns the same models as the REST client
// and is selected with source.kind: postgres.
package store
