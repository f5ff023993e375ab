// Package server exposes the dashboard screens over HTTP.
//
// One-shot JSON renders live under /views; long-lived screen sessions are
// served as WebSockets under /ws, each registered in a session.Registry so
// the refresher and idle reaper can reach it.
package server
