// Package inventory keeps a SQLite history of search, import and export runs
// and the per-file verdicts they produced. The history never influences a
// run: it exists so `mediasweep history` can answer what happened and when.
package inventory
