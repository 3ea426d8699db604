package twitter

import (
	"context"
	"net/http"

	"github.com/dghubble/oauth1"
)

// NewOAuth1Client returns an *http.Client that signs every outgoing
// request with Twitter's OAuth1 scheme, suitable as FeedOpener's Doer.
// Grounded on the teacher's own (transitive, via examples/go.mod)
// dependency on github.com/dghubble/oauth1 and on the standard
// sling+oauth1 pairing used across dghubble's own client libraries:
// oauth1.Config.Client wraps an http.Client's transport so the Streaming
// API request built by FeedOpener needs no separate signing step, which
// is why FeedOpener's RequestSigner collaborator stays nil when this
// client is used as the Doer.
func NewOAuth1Client(consumerKey, consumerSecret, accessToken, accessSecret string) *http.Client {
	config := oauth1.NewConfig(consumerKey, consumerSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	return config.Client(context.Background(), token)
}
