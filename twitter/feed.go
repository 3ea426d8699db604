package twitter

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/sling"
)

const (
	filterURL = "https://stream.twitter.com/1.1/statuses/filter.json"
	userURL   = "https://userstream.twitter.com/1.1/user.json"
	siteURL   = "https://sitestream.twitter.com/1.1/site.json"

	userAgent = "tstream/0.1"
)

// Doer is the out-of-scope HTTP client collaborator: anything that can
// execute a signed *http.Request and return its response. *http.Client
// satisfies it directly.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestSigner is the out-of-scope OAuth signer collaborator: it adds
// whatever Authorization header the Streaming API requires.
type RequestSigner interface {
	Sign(req *http.Request) error
}

// HTTPError is returned by FeedOpener.Open when the Streaming API responds
// with a non-2xx status. The monitor treats this as its own backoff
// category, distinct from transport-level failures.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("twitter: stream request failed: %s", e.Status)
}

// FeedOpener builds Streaming API requests, signs them, and launches a
// StreamProtocol bound to a delegate.
//
// Grounded on the teacher's StreamService (newStreamService/Filter/Sample
// request construction via sling), generalized to the filter/user/site/
// track entry points and v1.1 endpoints spec.md's §4.D names.
type FeedOpener struct {
	doer    Doer
	signer  RequestSigner
	log     Logger
	metrics *Metrics
	timeout time.Duration
}

// NewFeedOpener constructs a FeedOpener. A nil signer sends requests
// unsigned (useful in tests against a local server).
func NewFeedOpener(doer Doer, signer RequestSigner, log Logger, metrics *Metrics) *FeedOpener {
	if doer == nil {
		doer = http.DefaultClient
	}
	if log == nil {
		log = nopLogger{}
	}
	return &FeedOpener{doer: doer, signer: signer, log: log, metrics: metrics, timeout: DefaultInactivityTimeout}
}

// WithTimeout returns a copy of o using the given inactivity timeout for
// StreamProtocols it opens.
func (o *FeedOpener) WithTimeout(d time.Duration) *FeedOpener {
	cp := *o
	cp.timeout = d
	return &cp
}

// Filter opens a POST statuses/filter.json stream.
// https://dev.twitter.com/streaming/reference/post/statuses/filter
func (o *FeedOpener) Filter(delegate func(*Status), args map[string]string) (*StreamProtocol, error) {
	return o.open(filterURL, args, delegate)
}

// User opens a user.json stream, sent as a form-encoded POST like Filter.
// https://dev.twitter.com/streaming/reference/get/user
func (o *FeedOpener) User(delegate func(*Status), args map[string]string) (*StreamProtocol, error) {
	return o.open(userURL, args, delegate)
}

// Site opens a site.json stream, sent as a form-encoded POST like Filter.
// https://dev.twitter.com/streaming/reference/get/site
func (o *FeedOpener) Site(delegate func(*Status), args map[string]string) (*StreamProtocol, error) {
	return o.open(siteURL, args, delegate)
}

// Track is Filter with a track parameter built from keywords.
func (o *FeedOpener) Track(delegate func(*Status), keywords []string) (*StreamProtocol, error) {
	args := map[string]string{}
	if len(keywords) > 0 {
		args["track"] = strings.Join(keywords, ",")
	}
	return o.Filter(delegate, args)
}

// open builds the signed request, sends it, and — once headers are in —
// launches the stream protocol in its own goroutine. It returns as soon
// as the protocol is constructed; the caller reads proto.Done() for the
// later body-end completion.
func (o *FeedOpener) open(endpoint string, args map[string]string, delegate func(*Status)) (*StreamProtocol, error) {
	req, err := buildRequest(endpoint, args)
	if err != nil {
		return nil, err
	}
	if o.signer != nil {
		if err := o.signer.Sign(req); err != nil {
			return nil, err
		}
	}

	resp, err := o.doer.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	proto := NewStreamProtocol(resp.Body, o.timeout, o.log, o.metrics, delegate)
	go proto.Run()
	return proto, nil
}

// FuncOpener adapts one FeedOpener endpoint method (Filter, User, Site, or
// a Track-style closure) into the Opener interface the Monitor consumes.
// open is necessarily blocking (it performs the HTTP round-trip
// synchronously), so Open runs it on its own goroutine and bridges the
// resulting StreamProtocol's Done() channel into the closed callback —
// the one place in this package a channel is turned into a callback,
// since nothing about FeedOpener itself needs to be callback-based.
type FuncOpener struct {
	OpenFunc func(delegate func(*Status), args map[string]string) (*StreamProtocol, error)
}

// NewFilterOpener, NewUserOpener, and NewSiteOpener bind a FeedOpener to
// one Streaming API endpoint for use with NewMonitor.
func NewFilterOpener(o *FeedOpener) Opener { return FuncOpener{OpenFunc: o.Filter} }
func NewUserOpener(o *FeedOpener) Opener   { return FuncOpener{OpenFunc: o.User} }
func NewSiteOpener(o *FeedOpener) Opener   { return FuncOpener{OpenFunc: o.Site} }

func (f FuncOpener) Open(delegate func(*Status), filters map[string]string, done func(OpenResult), closed func(error)) {
	go func() {
		proto, err := f.OpenFunc(delegate, filters)
		if err != nil {
			done(OpenResult{Err: err})
			return
		}
		done(OpenResult{Transport: proto})
		go func() {
			closed(<-proto.Done())
		}()
	}()
}

// buildRequest builds a form-encoded POST request to endpoint carrying
// args verbatim, using sling for the request-building idiom the teacher
// already depends on.
func buildRequest(endpoint string, args map[string]string) (*http.Request, error) {
	values := url.Values{}
	for k, v := range args {
		values.Set(k, v)
	}
	req, err := sling.New().
		Post(endpoint).
		Set("User-Agent", userAgent).
		Set("Content-Type", "application/x-www-form-urlencoded").
		Body(strings.NewReader(values.Encode())).
		Request()
	if err != nil {
		return nil, err
	}
	return req, nil
}
