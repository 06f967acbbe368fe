// Package testsupport provides shared helpers for tests: temp-dir configs,
// store setup, seeded reports, and deterministic fakes for the external
// services.
package testsupport
