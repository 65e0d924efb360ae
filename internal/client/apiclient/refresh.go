package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
)

const refreshFlight = "refresh"

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refreshAfter makes sure the access token is newer than stale, the token the
// failed request carried. It reports whether a retry is worthwhile.
//
// Concurrent callers share a single refresh. A caller that arrives after the
// pair was already replaced retries without refreshing again.
func (c *Client) refreshAfter(ctx context.Context, stale string) bool {
	v, _, _ := c.refreshes.Do(refreshFlight, func() (any, error) {
		c.mu.RLock()
		access, refresh := c.access, c.refresh
		c.mu.RUnlock()

		if access != "" && access != stale {
			return true, nil
		}
		if refresh == "" {
			return false, nil
		}
		return c.refreshTokens(context.WithoutCancel(ctx), refresh), nil
	})
	ok, _ := v.(bool)
	return ok
}

// refreshTokens exchanges refresh for a new pair. The result, success or
// failure, applies only while refresh is still the held token.
func (c *Client) refreshTokens(ctx context.Context, refresh string) bool {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	fail := func(msg string, args ...any) bool {
		c.log.Warn(ctx, msg, args...)
		_ = c.clearIfCurrent(ctx, refresh)
		return false
	}

	b, err := newJSONBody(refreshRequest{Refresh: refresh})
	if err != nil {
		return fail("token refresh not sent", "error", err)
	}

	resp, err := c.send(ctx, http.MethodPost, RefreshPath, b, "")
	if err != nil {
		return fail("token refresh failed", "error", err)
	}
	if !resp.ok() {
		return fail("token refresh rejected", "status", resp.status)
	}

	var out refreshResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return fail("token refresh returned invalid body", "error", err)
	}
	if out.Access == "" {
		return fail("token refresh returned no access token")
	}

	next := out.Refresh
	if next == "" {
		next = refresh
	}
	// the new pair is already active in memory when persistence fails
	installed, _ := c.replaceTokens(ctx, refresh, out.Access, next)
	if !installed {
		// logout or a new login happened meanwhile; a new login is worth a retry
		c.log.Info(ctx, "refreshed tokens discarded: session changed")
		return c.AccessToken() != ""
	}

	c.log.Info(ctx, "tokens refreshed")
	return true
}
