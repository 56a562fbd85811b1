// Package tinypub turns a site configuration and its post timeline into the
// build jobs that write the static ActivityPub presence of the site: the
// WebFinger document, the actor profile with its four empty collections, and
// one Note per post and language.
package tinypub
