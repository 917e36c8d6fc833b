package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/oauth"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
)

// GoogleProfiles exchanges an OAuth code for a verified profile
type GoogleProfiles interface {
	Enabled() bool
	Profile(ctx context.Context, code string) (*oauth.GoogleProfile, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	jwtManager *utils.JWTManager
	google     GoogleProfiles
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	branchRepo repository.BranchRepository,
	jwtManager *utils.JWTManager,
	google GoogleProfiles,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		jwtManager: jwtManager,
		google:     google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	Branches     []entity.Branch
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.Password, input.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(ctx, user.ID, true)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(ctx, userID, false)
}

// GoogleEnabled reports whether Google sign-in is configured
func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil && s.google.Enabled()
}

// GoogleLogin signs in an existing user by their verified Google email.
// Accounts are provisioned by admins, so unknown emails are rejected.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.GoogleEnabled() {
		return nil, apperror.NewAppError(503, "Google sign-in is not configured")
	}

	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailUnverified) {
			return nil, apperror.NewAppError(401, "Google account email is not verified")
		}
		log.Warn().Err(err).Msg("google sign-in failed")
		return nil, apperror.NewAppError(401, "Google sign-in failed")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(profile.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.NewAppError(403, "No active account for this Google email")
	}

	if user.ProviderID == nil {
		user.ProviderID = &profile.ID
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("link google account")
		}
	}

	return s.issue(ctx, user.ID, true)
}

// GetCurrentUser returns the current user with roles and branches
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, []entity.Branch, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperror.NewNotFoundError("User")
	}
	branches, err := s.branchRepo.GetUserBranches(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, branches, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if user.Password != "" && !utils.CheckPassword(user.Password, input.CurrentPassword) {
		return apperror.NewFieldError("current_password", "current password is incorrect")
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// issue loads the user with roles and signs a fresh token pair
func (s *AuthService) issue(ctx context.Context, userID uuid.UUID, stampLogin bool) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidToken
	}

	if stampLogin {
		now := time.Now()
		user.LastLoginAt = &now
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("stamp last login")
		}
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.RoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	branches, err := s.branchRepo.GetUserBranches(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		Branches:     branches,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}
