// Package view implements the dashboard's three screens: the home listing,
// market detail and commodity trend.
//
// Each screen is a session that owns its criteria and fetched collections.
// Every mutation happens under the screen's mutex, which plays the role of a
// single UI thread. Fetches run on their own goroutines and are ordered by a
// fetch.Coordinator, so a response is applied only if no later request for the
// same data set has been issued.
//
// Network failures and empty results never escape as errors. They surface as a
// localized Notice in the rendered view.
package view
