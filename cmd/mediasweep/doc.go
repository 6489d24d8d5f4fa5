// Package main hosts the mediasweep CLI entrypoint and command graph.
//
// search lists library files that need transcoding, import swaps re-encoded
// files back into the library, and export copies a chosen list out of it.
// The remaining commands (inspect, history, doctor, config) support those
// three. Configuration, logging and run history are resolved once in
// commandContext so subcommands only translate flags into calls on the
// internal packages.
package main
