// Package refresh periodically re-fetches the data behind every open screen
// session so live views stay current without client action.
package refresh
