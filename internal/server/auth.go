package server

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"sankalp/internal/utils"
	"sankalp/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type registerInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input registerInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if fieldErrs := validateRegisterInput(&input); len(fieldErrs) > 0 {
		s.respondJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.internalServerError(w)
		return
	}

	user := &types.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Gender:       input.Gender,
		Address:      input.Address,
	}

	if input.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *input.DateOfBirth)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid date of birth")
			return
		}
		user.DateOfBirth = utils.TimePtr(dob)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, types.ErrUserExists) {
			s.respondError(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		s.logger.WithError(err).Error("failed to create user")
		s.internalServerError(w)
		return
	}

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.internalServerError(w)
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input loginInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.WithError(err).Error("failed to fetch user for login")
		s.internalServerError(w)
		return
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	}

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.internalServerError(w)
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// authenticate resolves email+password to an active user. Missing accounts,
// suspended accounts and bad passwords all collapse into
// ErrInvalidCredentials so the response cannot distinguish them.
func (s *Service) authenticate(ctx context.Context, email, password string) (*types.User, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != types.UserStatusActive {
		return nil, types.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, types.ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) issueToken(userID, email string) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(userID).
		Claim("email", email).
		IssuedAt(now).
		Expiration(now.Add(time.Duration(s.config.JWTExpirySec) * time.Second)).
		Build()
	if err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), []byte(s.config.JWTSecret)))
	if err != nil {
		return "", err
	}

	return string(signed), nil
}

// setSessionCookie stores the token in an encrypted httpOnly cookie so
// browser clients do not have to hold the bearer token in script.
func (s *Service) setSessionCookie(w http.ResponseWriter, token string) {
	encrypted, err := s.cookie.Encode(s.config.CookieName, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt session cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encrypted,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.JWTExpirySec,
		Path:     "/",
	})
}

func validateRegisterInput(input *registerInput) map[string]string {
	fieldErrs := make(map[string]string)

	if _, err := mail.ParseAddress(input.Email); err != nil {
		fieldErrs["email"] = "a valid email address is required"
	}
	if len(input.Password) < 6 {
		fieldErrs["password"] = "password must be at least 6 characters"
	}
	if len(input.FullName) < 2 {
		fieldErrs["full_name"] = "full name must be at least 2 characters"
	}

	return fieldErrs
}
