package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"unihub/internal/auth"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

const minPasswordLength = 6

// AvatarExtensions are the accepted avatar image types, in lookup order.
var AvatarExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Fullname   string
	Email      string
	University string
	Password   string
	Major      *string
}

// AvatarUpload is an image submitted with a profile update.
type AvatarUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ProfileInput carries the profile form. Avatar is optional.
type ProfileInput struct {
	Fullname   string
	University string
	Major      *string
	Avatar     *AvatarUpload
}

// AuthService handles accounts and bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.TokenResponse, error)
	// Login never tells an unknown email from a wrong password.
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	// Authenticate resolves a bearer token to its user.
	// Errors are auth.ErrTokenExpired or auth.ErrTokenInvalid.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	// Avatar opens the stored avatar of userID.
	Avatar(ctx context.Context, userID string) (io.ReadCloser, storage.ObjectInfo, error)
}

type authService struct {
	users   repository.UserRepository
	tokens  *auth.Tokens
	avatars storage.Storage
	now     func() time.Time
}

// NewAuthService constructs an AuthService. avatars holds profile images keyed "{user_id}.{ext}".
func NewAuthService(users repository.UserRepository, tokens *auth.Tokens, avatars storage.Storage) AuthService {
	return &authService{users: users, tokens: tokens, avatars: avatars, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.TokenResponse, error) {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.University = strings.TrimSpace(in.University)
	in.Email = normalizeEmail(in.Email)

	switch {
	case in.Fullname == "":
		return nil, invalid("fullname is required")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return nil, invalid("a valid email is required")
	case in.University == "":
		return nil, invalid("university is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, invalid("password is required")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		University:   in.University,
		Major:        in.Major,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	email, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.University = strings.TrimSpace(in.University)
	if in.Fullname == "" {
		return nil, invalid("fullname is required")
	}
	if in.University == "" {
		return nil, invalid("university is required")
	}
	if in.Major != nil {
		m := strings.TrimSpace(*in.Major)
		if m == "" {
			in.Major = nil
		} else {
			in.Major = &m
		}
	}

	if in.Avatar != nil {
		if err := s.saveAvatar(ctx, userID, in.Avatar); err != nil {
			return nil, err
		}
	}

	user, err := s.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Fullname:   in.Fullname,
		University: in.University,
		Major:      in.Major,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) saveAvatar(ctx context.Context, userID string, a *AvatarUpload) error {
	if a.Reader == nil {
		return ErrReaderNil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(a.Filename), "."))
	if !allowedAvatar(ext) {
		return &ValidationError{
			Code:    "INVALID_IMAGE",
			Message: "avatar must be one of: " + strings.Join(AvatarExtensions, ", "),
		}
	}

	if _, err := s.avatars.Put(ctx, userID+"."+ext, a.Reader, storage.PutObjectOptions{
		Size:        a.Size,
		ContentType: a.ContentType,
	}); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}

	// One avatar per user: drop the ones saved under other extensions.
	for _, other := range AvatarExtensions {
		if other == ext {
			continue
		}
		if err := s.avatars.Delete(ctx, userID+"."+other); err != nil {
			return fmt.Errorf("remove old avatar: %w", err)
		}
	}
	return nil
}

func allowedAvatar(ext string) bool {
	for _, e := range AvatarExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (s *authService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len([]rune(next)) < minPasswordLength {
		return invalid("new password must be at least %d characters", minPasswordLength)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *authService) Avatar(ctx context.Context, userID string) (io.ReadCloser, storage.ObjectInfo, error) {
	if userID == "" || strings.ContainsAny(userID, "/\\.") {
		return nil, storage.ObjectInfo{}, ErrAvatarNotFound
	}
	for _, ext := range AvatarExtensions {
		rc, info, err := s.avatars.Get(ctx, userID+"."+ext)
		if err == nil {
			return rc, info, nil
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, err
		}
	}
	return nil, storage.ObjectInfo{}, ErrAvatarNotFound
}
