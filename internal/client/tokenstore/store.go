// Package tokenstore keeps the API client's token pair in the local metadata
// repository so that a restarted client resumes the session.
package tokenstore

import (
	"context"
	"fmt"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/repositories/metadata"
)

const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

type Store struct {
	repo metadata.Repository
}

var _ apiclient.TokenStore = (*Store)(nil)

func New(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Load(ctx context.Context) (apiclient.TokenPair, error) {
	var pair apiclient.TokenPair

	access, _, err := s.repo.Get(ctx, AccessTokenKey)
	if err != nil {
		return pair, fmt.Errorf("load access token: %w", err)
	}
	refresh, _, err := s.repo.Get(ctx, RefreshTokenKey)
	if err != nil {
		return pair, fmt.Errorf("load refresh token: %w", err)
	}

	pair.Access, pair.Refresh = access, refresh
	return pair, nil
}

// Save writes both keys in one transaction. An empty token removes its key.
func (s *Store) Save(ctx context.Context, pair apiclient.TokenPair) error {
	set := map[string]string{}
	var drop []string

	for key, val := range map[string]string{AccessTokenKey: pair.Access, RefreshTokenKey: pair.Refresh} {
		if val == "" {
			drop = append(drop, key)
			continue
		}
		set[key] = val
	}

	if err := s.repo.Replace(ctx, set, drop); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.DeleteMany(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
