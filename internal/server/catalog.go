package server

import "net/http"

func (s *Service) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ActiveTypes(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch insurance types")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, products)
}

func (s *Service) handlePoliciesByType(w http.ResponseWriter, r *http.Request) {
	typeID := r.PathValue("typeID")

	policies, err := s.catalog.PoliciesByType(r.Context(), typeID)
	if err != nil {
		s.logger.WithError(err).WithField("type_id", typeID).Error("failed to fetch policies by type")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, policies)
}
