// Package domain contains application Usecases orchestrating domain logic by account.
package domain

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"parcelpeer/internal/entities"
)

const minPasswordLength = 8

// SignUp registers a free-tier user and opens a session.
func (u *Usecase) SignUp(ctx context.Context, in entities.SignUp) (*entities.Session, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", entities.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", entities.ErrInvalidArgument, minPasswordLength)
	}

	hash, err := u.passwords.Hash(in.Password)
	if err != nil {
		u.log.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr, err := u.repo.CreateUser(ctx, entities.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         entities.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("user signed up", "user_id", usr.ID)
	return u.session(*usr)
}

// SignIn checks credentials and opens a session.
func (u *Usecase) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", entities.ErrInvalidArgument)
	}

	usr, err := u.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.passwords.Check(usr.PasswordHash, password) {
		u.log.Warnw("sign in rejected", "user_id", usr.ID)
		return nil, entities.ErrInvalidCredentials
	}
	if usr.Suspended {
		return nil, entities.ErrUserSuspended
	}
	return u.session(*usr)
}

// ChangePassword replaces the password after checking the current one.
func (u *Usecase) ChangePassword(ctx context.Context, userID, current, next string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if utf8.RuneCountInString(next) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", entities.ErrInvalidArgument, minPasswordLength)
	}

	usr, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.passwords.Check(usr.PasswordHash, current) {
		return entities.ErrInvalidCredentials
	}

	hash, err := u.passwords.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	u.log.Infow("password changed", "user_id", userID)
	return nil
}

// Authenticate resolves a session token into the calling actor. The role and
// suspension come from the stored account, not from the token claims.
func (u *Usecase) Authenticate(ctx context.Context, token string) (entities.Actor, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return entities.Actor{}, err
	}

	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	usr, err := u.repo.GetUserByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return entities.Actor{}, fmt.Errorf("%w: account no longer exists", entities.ErrUnauthorized)
		}
		return entities.Actor{}, err
	}
	if usr.Suspended {
		return entities.Actor{}, entities.ErrUserSuspended
	}
	if usr.Role != claims.Role {
		u.log.Infow("session role refreshed", "user_id", usr.ID, "token_role", claims.Role, "role", usr.Role)
	}
	return entities.Actor{ID: usr.ID, Role: usr.Role, Email: usr.Email}, nil
}

func (u *Usecase) session(usr entities.User) (*entities.Session, error) {
	token, exp, err := u.tokens.Issue(usr.ID, usr.Role)
	if err != nil {
		u.log.Errorw("failed to issue token", "error", err, "user_id", usr.ID)
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &entities.Session{Token: token, ExpiresAt: exp, User: usr}, nil
}
