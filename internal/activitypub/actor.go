package activitypub

import (
	"fmt"
	"net/url"
)

// ActorDir is the directory, relative to the base URL and the output folder,
// holding the actor profile and its collections.
const ActorDir = "tinypub"

// DocumentExt is the extension of every ActivityStreams document.
const DocumentExt = ".jsonld"

// Collection names emitted next to the actor profile.
const (
	CollectionInbox     = "inbox"
	CollectionOutbox    = "outbox"
	CollectionFollowing = "following"
	CollectionFollowers = "followers"
)

// CollectionNames lists the actor collections in the order their targets are declared.
var CollectionNames = []string{CollectionInbox, CollectionOutbox, CollectionFollowing, CollectionFollowers}

// Actor is the publishing identity of a site, derived from its base URL and
// publication name.
type Actor struct {
	BaseURL string
	Name    string
}

// NewActor derives the actor for baseURL, which must end with a slash.
func NewActor(baseURL, name string) Actor {
	return Actor{BaseURL: baseURL, Name: name}
}

// URL is the extensionless identity URL: base_url + "tinypub/" + name.
func (a Actor) URL() string {
	return a.BaseURL + ActorDir + "/" + a.Name
}

// ID is the URL of the Person document.
func (a Actor) ID() string {
	return a.URL() + DocumentExt
}

// KeyID identifies the actor's public key.
func (a Actor) KeyID() string {
	return a.ID() + "#key"
}

// CollectionURL returns the URL of one of the actor collections.
func (a Actor) CollectionURL(name string) string {
	return a.URL() + "." + name + DocumentExt
}

// Account returns the WebFinger subject "acct:name@host".
func (a Actor) Account() (string, error) {
	host, err := HostOf(a.BaseURL)
	if err != nil {
		return "", err
	}
	return "acct:" + a.Name + "@" + host, nil
}

// HostOf returns the network location of rawURL: host and optional port,
// without scheme or path.
func HostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", rawURL)
	}
	return u.Host, nil
}
