// Package daemon runs the reclaim service: the HTTP API used by reporters
// and back-office tooling, the expiry sweeper, and single-instance locking.
package daemon
