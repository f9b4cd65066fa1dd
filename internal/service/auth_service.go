package service

import (
	"context"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	users      repository.UserRepository
	tokens     *token.Manager
	bcryptCost int
	log        zerolog.Logger
}

func newAuthService(users repository.UserRepository, tokens *token.Manager, bcryptCost int, log zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account and returns it with a signed token
func (s *authService) Register(ctx context.Context, in *validation.RegisterInput) (*models.User, string, error) {
	if errs := validation.ValidateRegister(in); len(errs) > 0 {
		return nil, "", common.NewValidationError(errs)
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", common.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Bio:          in.Bio,
		Website:      in.Website,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	tok, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("Account created")
	return user, tok, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, in *validation.LoginInput) (*models.User, string, error) {
	if errs := validation.ValidateLogin(in); len(errs) > 0 {
		return nil, "", common.NewValidationError(errs)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return nil, "", err
	}

	return user, tok, nil
}

// UpdateProfile applies a profile edit for the calling user. Email and the
// permission flags are not user-editable.
func (s *authService) UpdateProfile(ctx context.Context, user *models.User, in *validation.ProfileInput) (*models.User, error) {
	if errs := validation.ValidateProfile(in); len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	user.Name = in.Name
	user.Bio = in.Bio
	user.Website = in.Website
	user.GithubURL = in.GithubURL

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("Profile updated")
	return user, nil
}

// GetUser loads a user with their capability grants
func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNotFound
	}
	return user, nil
}
