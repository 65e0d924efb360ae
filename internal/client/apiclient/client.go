package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"

	"github.com/OkiljonDadakhanov/icho-platform/internal/logging"
)

const (
	LoginPath   = "/auth/login/"
	RefreshPath = "/auth/refresh/"
	LogoutPath  = "/auth/logout/"
)

const (
	DefaultObjectURLTTL = 60 * time.Second

	refreshTimeout = 30 * time.Second
	logoutTimeout  = 10 * time.Second
)

// TokenPair is the credential pair held by a Client. Empty strings mean absent.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenStore is the durable home of the token pair. It survives restarts and
// is the source of truth a new Client starts from.
type TokenStore interface {
	Load(ctx context.Context) (TokenPair, error)
	Save(ctx context.Context, pair TokenPair) error
	Clear(ctx context.Context) error
}

// Opener hands a local file to the system viewer.
type Opener interface {
	Open(path string) error
}

type OpenerFunc func(path string) error

func (f OpenerFunc) Open(path string) error { return f(path) }

type Options struct {
	// BaseURL prefixes every request path. When empty, requests fail with
	// ErrNotConfigured.
	BaseURL string
	// PortalURL scopes the session cookies. Defaults to BaseURL.
	PortalURL string

	Store      TokenStore
	Logger     logging.Logger
	HTTPClient *http.Client
	Opener     Opener

	// Timeout bounds each HTTP attempt. Zero means no limit beyond ctx.
	Timeout time.Duration
	// ObjectURLTTL is how long DownloadAndOpen keeps the temporary file.
	ObjectURLTTL time.Duration
}

type Client struct {
	baseURL      string
	portalURL    *url.URL
	http         *http.Client
	jar          http.CookieJar
	store        TokenStore
	log          logging.Logger
	opener       Opener
	timeout      time.Duration
	objectURLTTL time.Duration

	// writeMu orders whole pair updates (memory, cookies, store); mu guards
	// the in-memory pair for readers.
	writeMu sync.Mutex
	mu      sync.RWMutex
	access  string
	refresh string

	refreshes singleflight.Group

	tempMu sync.Mutex
	temps  map[string]*time.Timer
}

// New builds a Client and restores the token pair from opts.Store.
func New(ctx context.Context, opts Options) (*Client, error) {
	c := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		store:        opts.Store,
		log:          opts.Logger,
		opener:       opts.Opener,
		timeout:      opts.Timeout,
		objectURLTTL: opts.ObjectURLTTL,
		temps:        make(map[string]*time.Timer),
	}
	if c.store == nil {
		c.store = nopStore{}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.log = c.log.With("component", "apiclient")
	if c.opener == nil {
		c.opener = OpenerFunc(browser.OpenFile)
	}
	if c.objectURLTTL <= 0 {
		c.objectURLTTL = DefaultObjectURLTTL
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	c.http = hc
	c.jar = hc.Jar

	portal := opts.PortalURL
	if portal == "" {
		portal = opts.BaseURL
	}
	if portal != "" {
		u, err := url.Parse(portal)
		if err != nil {
			return nil, fmt.Errorf("invalid portal url %q: %w", portal, err)
		}
		if u.Host != "" {
			c.portalURL = u
		}
	}

	pair, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	if pair.Access != "" || pair.Refresh != "" {
		c.access, c.refresh = pair.Access, pair.Refresh
		c.mirrorCookies(pair.Access, pair.Refresh)
	}

	return c, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) IsAuthenticated() bool {
	return c.AccessToken() != ""
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

func (c *Client) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

// SetTokens installs a new pair in memory, the cookie mirror and the store.
// The in-memory pair is replaced even when the store write fails.
func (c *Client) SetTokens(ctx context.Context, access, refresh string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.access, c.refresh = access, refresh
	c.mu.Unlock()

	return c.persist(ctx, access, refresh)
}

// replaceTokens installs a pair only while the held refresh token is still
// prev. It reports whether the pair was installed.
func (c *Client) replaceTokens(ctx context.Context, prev, access, refresh string) (bool, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.refresh != prev {
		c.mu.Unlock()
		return false, nil
	}
	c.access, c.refresh = access, refresh
	c.mu.Unlock()

	return true, c.persist(ctx, access, refresh)
}

func (c *Client) persist(ctx context.Context, access, refresh string) error {
	c.mirrorCookies(access, refresh)
	c.log.Debug(ctx, "tokens updated", "access", logging.RedactToken(access), "refresh", logging.RedactToken(refresh))

	if err := c.store.Save(ctx, TokenPair{Access: access, Refresh: refresh}); err != nil {
		c.log.Error(ctx, "failed to persist tokens", "error", err)
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	return nil
}

// ClearTokens drops the pair everywhere. Safe to call repeatedly.
func (c *Client) ClearTokens(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.clearLocked(ctx)
}

// clearIfCurrent drops the pair only while the held refresh token is still prev.
func (c *Client) clearIfCurrent(ctx context.Context, prev string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.RefreshToken() != prev {
		return nil
	}
	return c.clearLocked(ctx)
}

func (c *Client) clearLocked(ctx context.Context) error {
	c.mu.Lock()
	c.access, c.refresh = "", ""
	c.mu.Unlock()

	c.expireCookies()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear persisted tokens", "error", err)
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// Logout asks the server to invalidate the refresh token and then clears the
// local session. Server-side failures are logged and never returned; only a
// failure to clear the local store is.
func (c *Client) Logout(ctx context.Context) error {
	if refresh := c.RefreshToken(); refresh != "" && c.baseURL != "" {
		c.notifyLogout(ctx, refresh)
	}
	return c.ClearTokens(context.WithoutCancel(ctx))
}

func (c *Client) notifyLogout(ctx context.Context, refresh string) {
	ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
	defer cancel()

	body, err := newJSONBody(map[string]string{"refresh": refresh})
	if err != nil {
		c.log.Warn(ctx, "logout request not sent", "error", err)
		return
	}

	resp, err := c.send(ctx, http.MethodPost, LogoutPath, body, c.AccessToken())
	if err != nil {
		c.log.Warn(ctx, "server logout failed", "error", err)
		return
	}
	if !resp.ok() {
		c.log.Warn(ctx, "server logout rejected", "status", resp.status)
	}
}

// Close removes documents still pending from DownloadAndOpen. The client
// stays usable for requests.
func (c *Client) Close() error {
	c.tempMu.Lock()
	pending := c.temps
	c.temps = make(map[string]*time.Timer)
	c.tempMu.Unlock()

	var errs []error
	for name, timer := range pending {
		timer.Stop()
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

type nopStore struct{}

func (nopStore) Load(context.Context) (TokenPair, error) { return TokenPair{}, nil }
func (nopStore) Save(context.Context, TokenPair) error   { return nil }
func (nopStore) Clear(context.Context) error             { return nil }
