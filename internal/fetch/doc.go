// Package fetch orders asynchronous data fetches for a screen session.
//
// Every request is tagged with a sequence number that increases per data set.
// When a response arrives it is applied only if its sequence number is still
// the highest issued for that data set; otherwise it is dropped as stale.
// Beginning a new request also cancels the context of the one it supersedes,
// so abandoned HTTP calls stop early.
//
// A stale response is expected control flow, not a failure: it is counted and
// logged at debug level only.
package fetch
