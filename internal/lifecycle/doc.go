// Package lifecycle implements the status state machine for item reports:
// pending -> posted -> claim resolution for found items, immediate posting
// for lost items, cancellation from pending, and the archived overlay.
package lifecycle
