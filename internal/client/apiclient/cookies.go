package apiclient

import (
	"net/http"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	accessCookieMaxAge  = 30 * 60
	refreshCookieMaxAge = 7 * 24 * 60 * 60
)

func sessionCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionCookies renders the pair as cookies. An empty token yields an
// expired cookie so that a stale value does not linger.
func sessionCookies(access, refresh string, secure bool) []*http.Cookie {
	cookies := make([]*http.Cookie, 0, 2)

	if access != "" {
		cookies = append(cookies, sessionCookie(AccessCookieName, access, accessCookieMaxAge, secure))
	} else {
		cookies = append(cookies, sessionCookie(AccessCookieName, "", -1, secure))
	}

	if refresh != "" {
		cookies = append(cookies, sessionCookie(RefreshCookieName, refresh, refreshCookieMaxAge, secure))
	} else {
		cookies = append(cookies, sessionCookie(RefreshCookieName, "", -1, secure))
	}

	return cookies
}

func expiredCookies(secure bool) []*http.Cookie {
	return sessionCookies("", "", secure)
}

func (c *Client) secure() bool {
	return c.portalURL != nil && c.portalURL.Scheme == "https"
}

func (c *Client) mirrorCookies(access, refresh string) {
	if c.portalURL == nil {
		return
	}
	c.jar.SetCookies(c.portalURL, sessionCookies(access, refresh, c.secure()))
}

func (c *Client) expireCookies() {
	if c.portalURL == nil {
		return
	}
	c.jar.SetCookies(c.portalURL, expiredCookies(c.secure()))
}

// SessionCookies returns the session cookies currently visible for the portal
// URL. They signal session presence only; requests authenticate with the
// in-memory access token.
func (c *Client) SessionCookies() []*http.Cookie {
	if c.portalURL == nil {
		return nil
	}
	var out []*http.Cookie
	for _, ck := range c.jar.Cookies(c.portalURL) {
		if ck.Name == AccessCookieName || ck.Name == RefreshCookieName {
			out = append(out, ck)
		}
	}
	return out
}
