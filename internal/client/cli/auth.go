package cli

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

// Login prompts for email and password and signs in. The password buffer is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}

	a.userName = email
	if user != nil && user.Email != "" {
		a.userName = user.Email
	}
	printlnFn("Logged in as", a.userName)
	return nil
}

// Logout ends the session. The local session is gone even when the server
// could not be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.userName = ""
	if err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

// Status prints the current session. With -v it also lists the locally
// stored keys, credentials redacted.
func (a *App) Status(ctx context.Context, args []string) error {
	verbose := false
	for _, arg := range args {
		if arg != "-v" {
			return usage("status [-v]")
		}
		verbose = true
	}

	s, err := a.authService.Session(ctx)
	if err != nil {
		return err
	}
	if !s.Authenticated {
		printlnFn("Not logged in")
		return a.printStored(ctx, verbose)
	}

	who := "unknown user"
	if s.User != nil {
		who = s.User.Email
		if s.User.Role != "" {
			who = fmt.Sprintf("%s (%s)", who, s.User.Role)
		}
	} else if s.UserID != "" {
		who = "user " + s.UserID
	}
	printlnFn("Logged in as", who)

	if !s.ExpiresAt.IsZero() {
		state := "valid until"
		if s.Expired(time.Now()) {
			state = "expired at"
		}
		printlnFn(fmt.Sprintf("Access token %s %s", state, s.ExpiresAt.Local().Format(time.RFC1123)))
	}
	return a.printStored(ctx, verbose)
}

func (a *App) printStored(ctx context.Context, verbose bool) error {
	if !verbose {
		return nil
	}
	stored, err := a.authService.Stored(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(stored))
	for k := range stored {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	printlnFn("Local state:")
	for _, k := range keys {
		printlnFn(fmt.Sprintf("  %s=%s", k, stored[k]))
	}
	return nil
}

func (a *App) restoreUserName(ctx context.Context) {
	s, err := a.authService.Session(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read session", "error", err)
		return
	}
	if s.User != nil {
		a.userName = s.User.Email
	}
}
