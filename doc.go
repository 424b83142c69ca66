// Package buzzpage wires storage, buffer, replacer, and btree together
// into a single key/value store: Open a Config and get back a ready
// Store backed by a fixed-size paged file on disk.
package buzzpage
