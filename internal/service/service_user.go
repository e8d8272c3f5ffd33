package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/policy"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/internal/validators"
	"github.com/MKhiriev/go-yamdb/models"
)

type userService struct {
	userRepository store.UserRepository
	validator      validators.Validator
	logger         *logger.Logger
}

func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		validator:      validators.NewRequestValidator(),
		logger:         logger,
	}
}

func (s *userService) Me(ctx context.Context, caller models.Caller) (models.User, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.FindUserByID(ctx, caller.UserID)
	if err != nil {
		return models.User{}, mapUserError(err)
	}

	return user, nil
}

func (s *userService) UpdateMe(ctx context.Context, caller models.Caller, patch models.UserPatch) (models.User, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return models.User{}, err
	}

	// self-service edits never change the role, whatever the payload says
	patch.Role = nil

	return s.update(ctx, caller.UserID, patch)
}

func (s *userService) ListUsers(ctx context.Context, caller models.Caller, filter models.UserFilter) ([]models.User, int, error) {
	if err := policy.Authorize(policy.Request{Caller: caller, Action: policy.ActionRead, Resource: policy.ResourceAccount}); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepository.ListUsers(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}

	return users, total, nil
}

// CreateUser creates an account on behalf of an admin. The new user obtains
// a token through the regular signup flow.
func (s *userService) CreateUser(ctx context.Context, caller models.Caller, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := policy.Authorize(policy.Request{Caller: caller, Action: policy.ActionCreate, Resource: policy.ResourceAccount}); err != nil {
		return models.User{}, err
	}

	if err := s.validator.Validate(ctx, user); err != nil {
		return models.User{}, validationError(err)
	}

	user.IsSuperuser = false
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, mapUserError(err)
	}

	log.Info().
		Str("func", "*userService.CreateUser").
		Str("created_by", caller.Username).
		Int64("user_id", created.UserID).
		Msg("user created")

	return created, nil
}

func (s *userService) GetUser(ctx context.Context, caller models.Caller, username string) (models.User, error) {
	return s.target(ctx, caller, policy.ActionRead, username)
}

// UpdateUser patches the account addressed by username. Only admins may
// change roles; for everyone else the role is kept like in UpdateMe.
func (s *userService) UpdateUser(ctx context.Context, caller models.Caller, username string, patch models.UserPatch) (models.User, error) {
	user, err := s.target(ctx, caller, policy.ActionUpdate, username)
	if err != nil {
		return models.User{}, err
	}

	if !caller.IsAdmin() {
		patch.Role = nil
	}

	return s.update(ctx, user.UserID, patch)
}

func (s *userService) DeleteUser(ctx context.Context, caller models.Caller, username string) error {
	log := logger.FromContext(ctx)

	user, err := s.target(ctx, caller, policy.ActionDelete, username)
	if err != nil {
		return err
	}

	if err = s.userRepository.DeleteUser(ctx, user.UserID); err != nil {
		return mapUserError(err)
	}

	log.Info().
		Str("func", "*userService.DeleteUser").
		Str("deleted_by", caller.Username).
		Int64("user_id", user.UserID).
		Msg("user deleted")

	return nil
}

// target loads the account addressed by username and authorizes action on
// it. Anonymous callers are rejected before the lookup.
func (s *userService) target(ctx context.Context, caller models.Caller, action policy.Action, username string) (models.User, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, mapUserError(err)
	}

	err = policy.Authorize(policy.Request{
		Caller:   caller,
		Action:   action,
		Resource: policy.ResourceAccount,
		OwnerID:  user.UserID,
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *userService) update(ctx context.Context, userID int64, patch models.UserPatch) (models.User, error) {
	if err := s.validator.Validate(ctx, patch); err != nil {
		return models.User{}, validationError(err)
	}

	if patch.IsEmpty() {
		user, err := s.userRepository.FindUserByID(ctx, userID)
		if err != nil {
			return models.User{}, mapUserError(err)
		}
		return user, nil
	}

	user, err := s.userRepository.UpdateUser(ctx, userID, patch)
	if err != nil {
		return models.User{}, mapUserError(err)
	}

	return user, nil
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUserAlreadyExists):
		return ErrUsernameOrEmailTaken
	default:
		return fmt.Errorf("user storage error: %w", err)
	}
}
