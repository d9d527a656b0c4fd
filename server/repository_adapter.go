package server

import (
	"context"
	"fmt"

	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/pkg/repository"
)

// RepositoryAdapter adapts repositories to server.Store and server.SettingStore interfaces
type RepositoryAdapter struct {
	repos *repository.Repositories
}

// NewRepositoryAdapter creates a new repository adapter
func NewRepositoryAdapter(repos *repository.Repositories) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos}
}

// GetRestrictions returns stored values of the profile, nil if it was never configured
func (r *RepositoryAdapter) GetRestrictions(ctx context.Context, profile string) (domain.Restrictions, error) {
	values, err := r.repos.Restriction.GetRestrictions(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("get restrictions of %s: %w", profile, err)
	}
	return values, nil
}

// SetRestrictions replaces stored values of the profile
func (r *RepositoryAdapter) SetRestrictions(ctx context.Context, profile string, values domain.Restrictions) error {
	if err := r.repos.Restriction.SetRestrictions(ctx, profile, values); err != nil {
		return fmt.Errorf("set restrictions of %s: %w", profile, err)
	}
	return nil
}

// DeleteRestrictions removes the profile, repository.ErrNotFound is kept in the chain
func (r *RepositoryAdapter) DeleteRestrictions(ctx context.Context, profile string) error {
	if err := r.repos.Restriction.DeleteRestrictions(ctx, profile); err != nil {
		return fmt.Errorf("delete restrictions of %s: %w", profile, err)
	}
	return nil
}

// ListProfiles returns all configured profiles
func (r *RepositoryAdapter) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := r.repos.Restriction.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// GetBool returns a boolean setting, false if not set
func (r *RepositoryAdapter) GetBool(ctx context.Context, key string) (bool, error) {
	return r.repos.Setting.GetBool(ctx, key)
}

// SetBool stores a boolean setting
func (r *RepositoryAdapter) SetBool(ctx context.Context, key string, value bool) error {
	return r.repos.Setting.SetBool(ctx, key, value)
}
