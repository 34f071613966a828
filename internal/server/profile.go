package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sankalp/pkg/types"
)

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	user, err := s.users.User(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to fetch user for profile")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	var input types.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	fields := make(map[string]any)

	if name := strings.TrimSpace(input.FullName); name != "" {
		fields["full_name"] = name
	}
	if input.PhoneNumber != nil {
		fields["phone_number"] = *input.PhoneNumber
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *input.DateOfBirth)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid date of birth")
			return
		}
		fields["date_of_birth"] = dob
	}

	if len(fields) == 0 {
		s.respondError(w, http.StatusBadRequest, "No profile fields to update")
		return
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to update profile")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
