package types

import "time"

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "Pending"
	ClaimStatusApproved ClaimStatus = "Approved"
	ClaimStatusRejected ClaimStatus = "Rejected"
	ClaimStatusPaid     ClaimStatus = "Paid"
)

type Claim struct {
	ID           string      `db:"id" json:"id"`
	UserPolicyID string      `db:"user_policy_id" json:"user_policy_id"`
	ClaimNumber  string      `db:"claim_number" json:"claim_number"`
	ClaimType    string      `db:"claim_type" json:"claim_type"`
	ClaimAmount  int64       `db:"claim_amount" json:"claim_amount"`
	Description  string      `db:"description" json:"description"`
	IncidentDate time.Time   `db:"incident_date" json:"incident_date"`
	Status       ClaimStatus `db:"status" json:"status"`
	FilingDate   time.Time   `db:"filing_date" json:"filing_date"`
}

// ClaimDetail joins a claim with its ledger entry and catalog fields.
type ClaimDetail struct {
	Claim
	PolicyNumber string `db:"policy_number" json:"policy_number"`
	PolicyName   string `db:"policy_name" json:"policy_name"`
	TypeName     string `db:"type_name" json:"type_name"`
}

// ClaimDocument is one uploaded attachment supporting a claim.
type ClaimDocument struct {
	ID            string    `db:"id" json:"id"`
	ClaimID       string    `db:"claim_id" json:"claim_id"`
	DocumentName  string    `db:"document_name" json:"document_name"`
	DocumentType  string    `db:"document_type" json:"document_type"`
	StorageKey    string    `db:"storage_key" json:"storage_key"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"file_size_bytes"`
	MimeType      string    `db:"mime_type" json:"mime_type"`
	UploadedAt    time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// FileClaimInput carries the multipart form fields of a claim filing.
type FileClaimInput struct {
	UserPolicyID string `form:"user_policy_id"`
	ClaimType    string `form:"claim_type"`
	ClaimAmount  int64  `form:"claim_amount"`
	Description  string `form:"description"`
	IncidentDate string `form:"incident_date"`
}
