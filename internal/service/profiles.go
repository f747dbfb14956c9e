package service

import (
	"context"
	"strings"

	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/pkg/telemetry"
)

// CreateProfileInput carries the fields for a new profile
type CreateProfileInput struct {
	Username  string
	FullName  string
	Bio       string
	AvatarURL string
}

// UpdateProfileInput carries a partial profile update. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Username  *string
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// GetProfile retrieves a profile by ID
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_profile")
	defer span.End()

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(OpGetProfile, err)
	}
	if profile == nil {
		return nil, Errorf(KindNotFound, OpGetProfile, "no profile with id %s", id)
	}
	return profile, nil
}

// GetProfileByUsername retrieves a profile by username
func (s *Service) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_profile_by_username")
	defer span.End()

	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, storageError(OpProfileByUsername, err)
	}
	if profile == nil {
		return nil, Errorf(KindNotFound, OpProfileByUsername, "no profile with username %q", username)
	}
	return profile, nil
}

// CreateProfile creates the profile for the current identity. Exactly one
// profile exists per identity; the profile ID is the identity ID.
func (s *Service) CreateProfile(ctx context.Context, input CreateProfileInput) (*models.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_profile")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpCreateProfile)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, Errorf(KindValidationFailed, OpCreateProfile, "username is required")
	}

	now := s.now()
	profile := &models.Profile{
		ID:        identity.ID,
		Username:  username,
		FullName:  input.FullName,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, storageError(OpCreateProfile, err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update to a profile. Only the identity
// that owns the profile may mutate it.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.update_profile")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpUpdateProfile)
	if err != nil {
		return nil, err
	}
	if identity.ID != id {
		return nil, Errorf(KindUnauthorized, OpUpdateProfile, "identity %s cannot update profile %s", identity.ID, id)
	}

	fields := map[string]interface{}{
		"updated_at": s.now(),
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, Errorf(KindValidationFailed, OpUpdateProfile, "username is required")
		}
		fields["username"] = username
	}
	if input.FullName != nil {
		fields["full_name"] = *input.FullName
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		fields["avatar_url"] = *input.AvatarURL
	}

	if err := s.profiles.Update(ctx, id, fields); err != nil {
		return nil, storageError(OpUpdateProfile, err)
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(OpUpdateProfile, err)
	}
	if profile == nil {
		return nil, Errorf(KindNotFound, OpUpdateProfile, "no profile with id %s", id)
	}
	return profile, nil
}
