package partner

import (
	"strings"
	"time"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// HistoryKind classifies a client history entry
type HistoryKind string

const (
	HistoryNote           HistoryKind = "note"
	HistoryOrderCreated   HistoryKind = "order_created"
	HistoryOrderConfirmed HistoryKind = "order_confirmed"
	HistoryStatusChange   HistoryKind = "status_change"
	HistoryImport         HistoryKind = "import"
)

// IsValid checks if the kind is known
func (k HistoryKind) IsValid() bool {
	switch k {
	case HistoryNote, HistoryOrderCreated, HistoryOrderConfirmed, HistoryStatusChange, HistoryImport:
		return true
	}
	return false
}

// ClientHistory is an append-only timeline entry of a client
type ClientHistory struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	UserID      uuid.UUID
	Kind        HistoryKind
	Description string
	OrderID     *uuid.UUID
	CreatedAt   time.Time
}

// NewClientHistory creates a timeline entry
func NewClientHistory(clientID, userID uuid.UUID, kind HistoryKind, description string, orderID *uuid.UUID) (*ClientHistory, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_HISTORY_KIND", "Unknown history kind: "+string(kind))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 2000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	return &ClientHistory{
		ID:          uuid.New(),
		ClientID:    clientID,
		UserID:      userID,
		Kind:        kind,
		Description: description,
		OrderID:     orderID,
		CreatedAt:   time.Now(),
	}, nil
}
