package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sankalp/internal/storage"
	"sankalp/internal/utils"
	"sankalp/pkg/types"
)

const maxClaimFormMemory = 32 << 20

func (s *Service) handleFileClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	if err := r.ParseMultipartForm(maxClaimFormMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	var input types.FileClaimInput
	if err := decoder.Decode(&input, r.MultipartForm.Value); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid claim fields")
		return
	}

	incidentDate, err := time.Parse(dateLayout, input.IncidentDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid incident date")
		return
	}

	if strings.TrimSpace(input.ClaimType) == "" || input.ClaimAmount <= 0 {
		s.respondError(w, http.StatusBadRequest, "Claim type and a positive claim amount are required")
		return
	}

	// Ownership gate: the target ledger entry must belong to the filer.
	entry, err := s.ownedPolicy(ctx, input.UserPolicyID, userID)
	if err != nil {
		s.respondPolicyError(w, err)
		return
	}

	files := r.MultipartForm.File["documents"]
	if len(files) > storage.MaxDocumentsPerClaim {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("At most %d documents may be attached", storage.MaxDocumentsPerClaim))
		return
	}

	// Validate every attachment before uploading any of them.
	docTypes := make([]string, len(files))
	for i, fh := range files {
		docType, err := storage.ValidateDocument(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, s.config.MaxDocumentBytes)
		if err != nil {
			if errors.Is(err, types.ErrDocumentTooLarge) {
				s.respondError(w, http.StatusBadRequest, "Document exceeds the maximum allowed size")
				return
			}
			s.respondError(w, http.StatusBadRequest, "Only image, PDF and document files are allowed")
			return
		}
		docTypes[i] = docType
	}

	docs := make([]*types.ClaimDocument, 0, len(files))
	uploadedKeys := make([]string, 0, len(files))
	for i, fh := range files {
		file, err := fh.Open()
		if err != nil {
			s.logger.WithError(err).Error("failed to open uploaded document")
			s.cleanupDocuments(ctx, uploadedKeys)
			s.internalServerError(w)
			return
		}

		key := storage.DocumentKey(entry.ID, utils.NanoIDSize(12), fh.Filename)
		contentType := fh.Header.Get("Content-Type")

		if _, err := s.documents.UploadDocument(ctx, key, file, contentType, fh.Size); err != nil {
			file.Close()
			s.logger.WithError(err).Error("failed to upload claim document")
			s.cleanupDocuments(ctx, uploadedKeys)
			s.internalServerError(w)
			return
		}
		file.Close()
		uploadedKeys = append(uploadedKeys, key)

		docs = append(docs, &types.ClaimDocument{
			DocumentName:  fh.Filename,
			DocumentType:  docTypes[i],
			StorageKey:    key,
			FileSizeBytes: fh.Size,
			MimeType:      contentType,
		})
	}

	claim := &types.Claim{
		UserPolicyID: entry.ID,
		ClaimType:    input.ClaimType,
		ClaimAmount:  input.ClaimAmount,
		Description:  input.Description,
		IncidentDate: incidentDate,
	}

	if err := s.claims.FileClaim(ctx, claim, docs); err != nil {
		s.cleanupDocuments(ctx, uploadedKeys)
		switch {
		case errors.Is(err, types.ErrDuplicateIdentifier):
			s.respondError(w, http.StatusConflict, "Could not allocate a claim number, please retry")
		case errors.Is(err, types.ErrPartialWriteFailure):
			s.logger.WithError(err).Error("claim write rolled back")
			s.respondError(w, http.StatusInternalServerError, "Claim could not be recorded, no partial data was kept")
		default:
			s.logger.WithError(err).Error("failed to file claim")
			s.internalServerError(w)
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message":      "Claim filed successfully",
		"claim_number": claim.ClaimNumber,
		"id":           claim.ID,
	})
}

func (s *Service) handleListClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	claims, err := s.claims.ClaimsByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch user claims")
		s.internalServerError(w)
		return
	}

	out := make([]claimWithDocuments, 0, len(claims))
	for _, claim := range claims {
		docs, err := s.claims.DocumentsByClaimID(ctx, claim.ID)
		if err != nil {
			s.logger.WithError(err).WithField("claim_id", claim.ID).Error("failed to fetch claim documents")
			s.internalServerError(w)
			return
		}
		if docs == nil {
			docs = []*types.ClaimDocument{}
		}
		out = append(out, claimWithDocuments{ClaimDetail: claim, Documents: docs})
	}

	s.respondJSON(w, http.StatusOK, out)
}

type claimWithDocuments struct {
	*types.ClaimDetail
	Documents []*types.ClaimDocument `json:"documents"`
}

// cleanupDocuments best-effort deletes objects uploaded for a filing that did
// not complete.
func (s *Service) cleanupDocuments(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.documents.DeleteDocument(ctx, key); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("failed to clean up orphaned document")
		}
	}
}
