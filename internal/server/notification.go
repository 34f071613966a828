package server

import "net/http"

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	notifications, err := s.notifications.NotificationsByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch notifications")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, notifications)
}

func (s *Service) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	notificationID := r.PathValue("id")

	if err := s.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		s.logger.WithError(err).WithField("notification_id", notificationID).Error("failed to mark notification read")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
