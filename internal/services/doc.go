// Package services defines the small set of cross-cutting helpers shared by
// the search, import and export runs.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and command names for logging
//     and history records.
//   - Structured error markers plus the Wrap helper so every failure can be
//     classified (validation, probe protocol, invariant, external tool, I/O,
//     unmatched media) with errors.Is.
//
// Every marked error is fatal to its run; nothing in this repository retries.
package services
