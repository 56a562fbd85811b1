// Package activitypub builds the static ActivityStreams and WebFinger documents
// published for a blog: the WebFinger discovery file, the Person profile of the
// single blog actor, its four empty OrderedCollections, and one Note per post
// and language.
//
// Documents are plain structs whose field order matches the emitted JSON. They
// are serialized compactly, without HTML escaping and without a trailing newline.
package activitypub
