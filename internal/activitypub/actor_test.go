package activitypub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActorURLs(t *testing.T) {
	a := NewActor("https://example.com/", "blog")

	require.Equal(t, "https://example.com/tinypub/blog", a.URL())
	require.Equal(t, "https://example.com/tinypub/blog.jsonld", a.ID())
	require.Equal(t, "https://example.com/tinypub/blog.jsonld#key", a.KeyID())
	require.Equal(t, "https://example.com/tinypub/blog.inbox.jsonld", a.CollectionURL(CollectionInbox))
	require.Equal(t, "https://example.com/tinypub/blog.followers.jsonld", a.CollectionURL(CollectionFollowers))
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://example.com/", "example.com", false},
		{"https://example.com/blog/", "example.com", false},
		{"http://localhost:8000/", "localhost:8000", false},
		{"example.com/", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HostOf(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAccountUsesHostOnly(t *testing.T) {
	acct, err := NewActor("https://example.com/sub/path/", "blog").Account()
	require.NoError(t, err)
	require.Equal(t, "acct:blog@example.com", acct)
}
