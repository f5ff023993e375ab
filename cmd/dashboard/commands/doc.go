// Package commands implements the dashboard command line.
package commands
