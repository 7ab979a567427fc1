// Package main hosts the minutes CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, opens the session store, and
// hands work to the internal packages: roster parsing, analysis (summary and
// task extraction), delivery grouping, and dispatch. Each invocation works on
// one persisted session, addressed by ID or prefix, or the latest one when no
// ID is given.
//
// Keep this package lean: new behaviour belongs in internal/ first and is
// surfaced here through a command or flag.
package main
