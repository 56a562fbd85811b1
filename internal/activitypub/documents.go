package activitypub

import (
	"path"
	"strings"
	"time"
)

const (
	// ContextActivityStreams is the JSON-LD context of every ActivityStreams document.
	ContextActivityStreams = "https://www.w3.org/ns/activitystreams"
	// PublicAddress is the special collection addressing everyone.
	PublicAddress = "https://www.w3.org/ns/activitystreams#Public"
	// MediaTypeActivityJSON is the content type advertised by WebFinger.
	MediaTypeActivityJSON = "application/activity+json"

	defaultIconMediaType = "image/png"
	summarySeparator     = "<br><br>"
	publishedLayout      = "2006-01-02T15:04:05Z"
)

// WebFinger is the discovery document served at /.well-known/webfinger.
type WebFinger struct {
	Aliases []string        `json:"aliases"`
	Links   []WebFingerLink `json:"links"`
	Subject string          `json:"subject"`
}

// WebFingerLink points from the account to its ActivityPub representation.
type WebFingerLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
	Type string `json:"type"`
}

// Image references the actor avatar.
type Image struct {
	MediaType string `json:"mediaType"`
	Type      string `json:"type"`
	URL       string `json:"url"`
}

// PublicKey publishes the key remote servers would use to verify the actor.
type PublicKey struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// Person is the actor profile document.
type Person struct {
	Context           string    `json:"@context"`
	Following         string    `json:"following"`
	Followers         string    `json:"followers"`
	Icon              Image     `json:"icon"`
	ID                string    `json:"id"`
	Inbox             string    `json:"inbox"`
	MovedTo           string    `json:"movedTo"`
	Name              string    `json:"name"`
	Outbox            string    `json:"outbox"`
	PreferredUsername string    `json:"preferredUsername"`
	PublicKey         PublicKey `json:"publicKey"`
	Summary           string    `json:"summary"`
	Type              string    `json:"type"`
	URL               string    `json:"url"`
}

// OrderedCollection is an actor collection. tinypub only ever emits empty ones.
type OrderedCollection struct {
	Context      string `json:"@context"`
	AttributedTo string `json:"attributedTo"`
	ID           string `json:"id"`
	OrderedItems []any  `json:"orderedItems"`
	TotalItems   int    `json:"totalItems"`
	Type         string `json:"type"`
}

// Note is the ActivityStreams representation of one post in one language.
type Note struct {
	Context      string   `json:"@context"`
	AttributedTo string   `json:"attributedTo"`
	Content      string   `json:"content"`
	ID           string   `json:"id"`
	Published    string   `json:"published"`
	Summary      string   `json:"summary"`
	To           []string `json:"to"`
	CC           []string `json:"cc"`
	Type         string   `json:"type"`
	URL          string   `json:"url"`
}

// Profile carries the values of the Person document that do not derive from the actor URL.
type Profile struct {
	BaseURL      string
	IconPath     string
	MovedTo      string
	Name         string
	Notice       string
	Description  string
	PublicKeyPEM string
}

// NewWebFinger builds the discovery document for actor.
func NewWebFinger(actor Actor) (WebFinger, error) {
	subject, err := actor.Account()
	if err != nil {
		return WebFinger{}, err
	}
	return WebFinger{
		Aliases: []string{actor.ID()},
		Links: []WebFingerLink{{
			Href: actor.ID(),
			Rel:  "self",
			Type: MediaTypeActivityJSON,
		}},
		Subject: subject,
	}, nil
}

// NewPerson builds the actor profile.
func NewPerson(actor Actor, p Profile) Person {
	return Person{
		Context:   ContextActivityStreams,
		Following: actor.CollectionURL(CollectionFollowing),
		Followers: actor.CollectionURL(CollectionFollowers),
		Icon: Image{
			MediaType: IconMediaType(p.IconPath),
			Type:      "Image",
			URL:       p.BaseURL + p.IconPath,
		},
		ID:                actor.ID(),
		Inbox:             actor.CollectionURL(CollectionInbox),
		MovedTo:           p.MovedTo,
		Name:              p.Name,
		Outbox:            actor.CollectionURL(CollectionOutbox),
		PreferredUsername: actor.Name,
		PublicKey: PublicKey{
			ID:           actor.KeyID(),
			Owner:        actor.ID(),
			PublicKeyPem: p.PublicKeyPEM,
		},
		Summary: p.Notice + summarySeparator + p.Description,
		Type:    "Person",
		URL:     p.BaseURL,
	}
}

// NewEmptyCollection builds the named, always empty, collection of actor.
func NewEmptyCollection(actor Actor, name string) OrderedCollection {
	return OrderedCollection{
		Context:      ContextActivityStreams,
		AttributedTo: actor.ID(),
		ID:           actor.CollectionURL(name),
		OrderedItems: []any{},
		TotalItems:   0,
		Type:         "OrderedCollection",
	}
}

// NoteFields are the per-post values of a Note.
type NoteFields struct {
	ID        string
	URL       string
	Content   string
	Summary   string
	Published time.Time
}

// NewNote builds a publicly addressed Note attributed to actor.
func NewNote(actor Actor, f NoteFields) Note {
	return Note{
		Context:      ContextActivityStreams,
		AttributedTo: actor.ID(),
		Content:      f.Content,
		ID:           f.ID,
		Published:    FormatPublished(f.Published),
		Summary:      f.Summary,
		To:           []string{PublicAddress},
		CC:           []string{PublicAddress},
		Type:         "Note",
		URL:          f.URL,
	}
}

// FormatPublished renders t in UTC, truncated to whole seconds, with a literal Z.
func FormatPublished(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(publishedLayout)
}

// iconMediaTypes maps avatar file extensions to media types.
var iconMediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".bmp":  "image/bmp",
}

// IconMediaType returns the avatar media type for its extension, image/png
// when the extension is unknown.
func IconMediaType(iconPath string) string {
	if mt, ok := iconMediaTypes[strings.ToLower(path.Ext(iconPath))]; ok {
		return mt
	}
	return defaultIconMediaType
}
