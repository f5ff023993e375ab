// Package session keeps the live screen sessions opened over WebSocket.
//
// Sessions are keyed by UUID, touched on client activity and reaped after an
// idle timeout. Removing a session closes its screen, which cancels its
// in-flight fetches.
package session
