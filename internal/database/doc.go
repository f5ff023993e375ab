// Package database opens the pgx connection pool for the price backend's
// PostgreSQL database. The dashboard only reads from it.
package database
