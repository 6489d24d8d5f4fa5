// Package notifications reports finished search, import and export runs.
//
// The default implementation publishes to the ntfy topic URL configured in
// config.toml and degrades to a no-op when no topic is set. Delivery failures
// are returned to the caller, which logs them; a run never fails because a
// notification could not be sent.
package notifications
