// Package types defines the Record contract, the record variants, the
// Type Registry, the Store interface and the standard errors of the hbnb
// record store.
//
// Records embed Base for identity and timestamps. A Store keeps snapshots
// of records keyed "<Kind>.<id>"; the Registry turns a snapshot back into
// the typed variant named by that key.
package types
