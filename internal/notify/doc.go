// Package notify implements the match-notification fan-out: one in-app
// record plus one best-effort email per eligible recipient, driven by score
// thresholds that differ between submission and verification time.
package notify
