package types

import "time"

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusResolved TicketStatus = "Resolved"
	TicketStatusClosed   TicketStatus = "Closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

type SupportTicket struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"user_id"`
	TicketNumber string         `db:"ticket_number" json:"ticket_number"`
	Subject      string         `db:"subject" json:"subject"`
	Description  string         `db:"description" json:"description"`
	Priority     TicketPriority `db:"priority" json:"priority"`
	Status       TicketStatus   `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// CreateTicketInput is the support ticket request payload.
type CreateTicketInput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}
