package roommates

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/config"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// ServiceParams groups dependencies for the roommate service.
type ServiceParams struct {
	ProfileRepo *Repository
	Scorer      Scorer
	Pooling     config.PoolingConfig
}

// Service exposes roommate profile management and compatibility matching.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error)
	Matches(ctx context.Context, userID uuid.UUID) (MatchesDTO, error)
}

type service struct {
	profileRepo *Repository
	scorer      Scorer
	cutoff      int
	limit       int
}

// NewService builds a roommate service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.Scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scorer is required")
	}
	cutoff := params.Pooling.RoommateMatchCutoff
	limit := params.Pooling.RoommateMatchLimit
	if limit <= 0 {
		limit = 20
	}
	return &service{
		profileRepo: params.ProfileRepo,
		scorer:      params.Scorer,
		cutoff:      cutoff,
		limit:       limit,
	}, nil
}

// GetProfile returns the caller's profile, creating a default on first access.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	if userID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.profileRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roommate profile")
	}
	return toProfileDTO(profile), nil
}

// UpdateProfile applies a partial update to the caller's profile.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error) {
	if userID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateProfileInput(input); err != nil {
		return ProfileDTO{}, err
	}

	profile, err := s.profileRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roommate profile")
	}

	if input.Gender != nil {
		profile.Gender = *input.Gender
	}
	if input.PreferredGender != nil {
		profile.PreferredGender = *input.PreferredGender
	}
	if input.AgeGroup != nil {
		profile.AgeGroup = *input.AgeGroup
	}
	if input.SleepSchedule != nil {
		profile.SleepSchedule = *input.SleepSchedule
	}
	if input.Cleanliness != nil {
		profile.Cleanliness = *input.Cleanliness
	}
	if input.NoisePreference != nil {
		profile.NoisePreference = *input.NoisePreference
	}
	if input.SmokingPreference != nil {
		profile.SmokingPreference = *input.SmokingPreference
	}
	if input.Interests != nil {
		profile.Interests = input.Interests
	}
	if input.Languages != nil {
		profile.Languages = input.Languages
	}
	if input.Occupation != nil {
		profile.Occupation = input.Occupation
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.HasPets != nil {
		profile.HasPets = *input.HasPets
	}
	if input.IsLookingForRoommate != nil {
		profile.IsLookingForRoommate = *input.IsLookingForRoommate
	}

	if err := s.profileRepo.Save(ctx, &profile); err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save roommate profile")
	}
	return toProfileDTO(profile), nil
}

// Matches scores every candidate against the caller's profile and returns
// the top entries above the cutoff, ranked descending.
func (s *service) Matches(ctx context.Context, userID uuid.UUID) (MatchesDTO, error) {
	if userID == uuid.Nil {
		return MatchesDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	own, err := s.profileRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return MatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roommate profile")
	}

	candidates, err := s.profileRepo.ListCandidates(ctx, userID)
	if err != nil {
		return MatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load match candidates")
	}

	matches := make([]MatchDTO, 0, len(candidates))
	for _, candidate := range candidates {
		result := s.scorer.Score(own, candidate)
		if result.Score <= s.cutoff {
			continue
		}
		matches = append(matches, MatchDTO{
			Profile:            toProfileDTO(candidate),
			CompatibilityScore: result.Score,
			MatchReasons:       result.Reasons,
			Breakdown:          result.Breakdown,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CompatibilityScore > matches[j].CompatibilityScore
	})

	total := len(matches)
	if len(matches) > s.limit {
		matches = matches[:s.limit]
	}

	return MatchesDTO{Matches: matches, TotalFound: total}, nil
}

func validateProfileInput(input UpdateProfileInput) error {
	if input.Gender != nil && !input.Gender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	if input.PreferredGender != nil && !input.PreferredGender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid preferred gender")
	}
	if input.AgeGroup != nil && !input.AgeGroup.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid age group")
	}
	if input.SleepSchedule != nil && !input.SleepSchedule.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sleep schedule")
	}
	if input.Cleanliness != nil && !input.Cleanliness.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cleanliness level")
	}
	if input.NoisePreference != nil && !input.NoisePreference.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid noise preference")
	}
	if input.SmokingPreference != nil && !input.SmokingPreference.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid smoking preference")
	}
	return nil
}
