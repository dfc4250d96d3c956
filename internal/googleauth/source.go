// Package googleauth owns the authenticated Google Calendar client handle.
//
// The handle is built lazily on first use from an OAuth client-secret file
// and a cached token file, then reused across requests. Callers that hit
// an authentication failure call Invalidate so the next request rebuilds
// the handle; this package never retries on its own.
package googleauth

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrUnavailable indicates no usable calendar client can be produced,
// typically because the credential or token file is missing or malformed.
var ErrUnavailable = errors.New("calendar authentication unavailable")

// ClientSource produces the process-wide calendar service handle.
type ClientSource struct {
	credentialsFile string
	tokenFile       string

	mu  sync.Mutex
	svc *calendar.Service
}

// NewClientSource creates a source reading the OAuth client secret from
// credentialsFile and the cached user token from tokenFile.
func NewClientSource(credentialsFile, tokenFile string) *ClientSource {
	return &ClientSource{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}
}

// Service returns the authenticated calendar service, building it on
// first use. Token refresh is handled by the oauth2 token source.
func (s *ClientSource) Service(ctx context.Context) (*calendar.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	svc, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.svc = svc
	return s.svc, nil
}

// Invalidate drops the cached handle so the next Service call rebuilds it.
func (s *ClientSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.svc = nil
}

func (s *ClientSource) build(ctx context.Context) (*calendar.Service, error) {
	conf, err := s.config()
	if err != nil {
		return nil, err
	}

	tok, err := readToken(s.tokenFile)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "no cached token at %s, run 'trolyai auth' first: %v", s.tokenFile, err)
	}

	ts := conf.TokenSource(ctx, tok)
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "create calendar service: %v", err)
	}
	return svc, nil
}

func (s *ClientSource) config() (*oauth2.Config, error) {
	b, err := os.ReadFile(s.credentialsFile)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read client secret %s: %v", s.credentialsFile, err)
	}
	conf, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "parse client secret %s: %v", s.credentialsFile, err)
	}
	return conf, nil
}

// AuthURL returns the consent URL for the initial authorization flow.
func (s *ClientSource) AuthURL() (string, error) {
	conf, err := s.config()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and caches it.
func (s *ClientSource) Exchange(ctx context.Context, code string) error {
	conf, err := s.config()
	if err != nil {
		return err
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "exchange authorization code: %v", err)
	}
	return writeToken(s.tokenFile, tok)
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrapf(err, "save token to %s", path)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
