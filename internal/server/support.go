package server

import (
	"errors"
	"net/http"
	"strings"

	"sankalp/pkg/types"
)

func (s *Service) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	var input types.CreateTicketInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	if input.Subject == "" || input.Description == "" {
		s.respondError(w, http.StatusBadRequest, "Subject and description are required")
		return
	}

	priority := types.TicketPriority(input.Priority)
	switch priority {
	case types.TicketPriorityLow, types.TicketPriorityMedium, types.TicketPriorityHigh:
	case "":
		priority = types.TicketPriorityMedium
	default:
		s.respondError(w, http.StatusBadRequest, "Priority must be Low, Medium or High")
		return
	}

	ticket := &types.SupportTicket{
		UserID:      userID,
		Subject:     input.Subject,
		Description: input.Description,
		Priority:    priority,
	}

	if err := s.support.CreateTicket(ctx, ticket); err != nil {
		if errors.Is(err, types.ErrDuplicateIdentifier) {
			s.respondError(w, http.StatusConflict, "Could not allocate a ticket number, please retry")
			return
		}
		s.logger.WithError(err).Error("failed to create support ticket")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message":       "Support ticket created successfully",
		"ticket_number": ticket.TicketNumber,
		"id":            ticket.ID,
	})
}

func (s *Service) handleListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	tickets, err := s.support.TicketsByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch support tickets")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, tickets)
}
