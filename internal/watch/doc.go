// Package watch keeps the ActivityPub documents up to date while the site is
// being edited: content and configuration changes trigger a debounced rebuild,
// and an optional interval forces periodic ones. Rebuilds never overlap.
package watch
