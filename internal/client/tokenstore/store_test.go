package tokenstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/localdb"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/repositories/metadata"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/tokenstore"
)

func openRepo(t *testing.T, dsn string) *localdb.Repositories {
	t.Helper()
	repos, err := localdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	repos := openRepo(t, ":memory:")
	s := tokenstore.New(repos.Metadata)

	pair, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, apiclient.TokenPair{}, pair)

	require.NoError(t, s.Save(ctx, apiclient.TokenPair{Access: "a", Refresh: "r"}))
	pair, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, apiclient.TokenPair{Access: "a", Refresh: "r"}, pair)

	require.NoError(t, s.Save(ctx, apiclient.TokenPair{Access: "a2"}))
	pair, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, apiclient.TokenPair{Access: "a2"}, pair)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	pair, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, apiclient.TokenPair{}, pair)
}

func TestStore_ClearKeepsOtherMetadata(t *testing.T) {
	ctx := context.Background()
	repos := openRepo(t, ":memory:")
	s := tokenstore.New(repos.Metadata)

	require.NoError(t, repos.Metadata.Set(ctx, "user", `{"id":1}`))
	require.NoError(t, s.Save(ctx, apiclient.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, s.Clear(ctx))

	v, ok, err := repos.Metadata.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":1}`, v)
}

// A fresh client over the same database resumes the session.
func TestStore_ClientSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "icho.db")

	repos, err := localdb.Open(ctx, dsn)
	require.NoError(t, err)
	c, err := apiclient.New(ctx, apiclient.Options{Store: tokenstore.New(repos.Metadata)})
	require.NoError(t, err)
	require.NoError(t, c.SetTokens(ctx, "a", "r"))
	require.NoError(t, repos.Close())

	repos = openRepo(t, dsn)
	restarted, err := apiclient.New(ctx, apiclient.Options{Store: tokenstore.New(repos.Metadata)})
	require.NoError(t, err)
	require.True(t, restarted.IsAuthenticated())
	require.Equal(t, "a", restarted.AccessToken())
	require.Equal(t, "r", restarted.RefreshToken())

	require.NoError(t, restarted.ClearTokens(ctx))
	again, err := apiclient.New(ctx, apiclient.Options{Store: tokenstore.New(repos.Metadata)})
	require.NoError(t, err)
	require.False(t, again.IsAuthenticated())
}

// A rejected delete must not leave the new access token next to the old
// refresh token.
func TestStore_SaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	repos := openRepo(t, ":memory:")
	s := tokenstore.New(repos.Metadata)

	require.NoError(t, s.Save(ctx, apiclient.TokenPair{Access: "a", Refresh: "r"}))
	_, err := repos.DB.Exec(`
CREATE TRIGGER keep_refresh BEFORE DELETE ON metadata
WHEN OLD.key = 'refreshToken'
BEGIN
  SELECT RAISE(ABORT, 'rejected');
END;`)
	require.NoError(t, err)

	require.Error(t, s.Save(ctx, apiclient.TokenPair{Access: "a2"}))

	pair, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, apiclient.TokenPair{Access: "a", Refresh: "r"}, pair)
}

type failingRepo struct {
	metadata.Repository
	err error
}

func (f failingRepo) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingRepo) DeleteMany(context.Context, ...string) error       { return f.err }
func (f failingRepo) Replace(context.Context, map[string]string, []string) error {
	return f.err
}

func TestStore_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := tokenstore.New(failingRepo{err: boom})

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.Save(ctx, apiclient.TokenPair{Access: "a", Refresh: "r"}), boom)
	require.ErrorIs(t, s.Clear(ctx), boom)

	_, err = apiclient.New(ctx, apiclient.Options{Store: s})
	require.ErrorIs(t, err, boom)
}
