package partner

import (
	"regexp"
	"strings"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ClientInfo holds the editable fields of a client
type ClientInfo struct {
	Code              string
	Name              string
	TradeName         string
	CNPJ              string
	StateRegistration string
	Phone             string
	Email             string
	Address           string
	City              string
	State             string
	ZipCode           string
	Notes             string
	RegionID          *uuid.UUID
	RepresentativeID  *uuid.UUID
}

// Client is a business that buys from the distributor
type Client struct {
	shared.BaseEntity
	ClientInfo
	Active bool
}

// NewClient creates an active client
func NewClient(info ClientInfo) (*Client, error) {
	c := &Client{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := c.Update(info); err != nil {
		return nil, err
	}
	return c, nil
}

// Update validates and replaces the client's editable fields.
// The CNPJ/CPF is stored formatted; only its length is enforced so legacy
// registrations with wrong check digits can still be kept.
func (c *Client) Update(info ClientInfo) error {
	info.Code = strings.TrimSpace(info.Code)
	info.Name = strings.TrimSpace(info.Name)
	info.TradeName = strings.TrimSpace(info.TradeName)
	info.StateRegistration = strings.TrimSpace(info.StateRegistration)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.State = strings.ToUpper(strings.TrimSpace(info.State))
	info.ZipCode = strings.TrimSpace(info.ZipCode)
	info.Notes = strings.TrimSpace(info.Notes)

	if info.Name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(info.Name) > 200 || len(info.TradeName) > 200 {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	if len(info.Code) > 50 {
		return shared.NewDomainError("INVALID_CLIENT_CODE", "Client code cannot exceed 50 characters")
	}
	if cnpj := strings.TrimSpace(info.CNPJ); cnpj != "" {
		if !valueobject.ValidDocumentShape(cnpj) {
			return shared.NewDomainError("INVALID_CNPJ", "CNPJ must have 14 digits (or 11 for a CPF)")
		}
		info.CNPJ = valueobject.FormatDocument(cnpj)
	} else {
		info.CNPJ = ""
	}
	if info.Email != "" && !emailRegex.MatchString(info.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if info.State != "" && !valueobject.ValidState(info.State) {
		return shared.NewDomainError("INVALID_STATE", "State must be a Brazilian UF such as SP or MG")
	}
	if info.ZipCode != "" {
		digits := valueobject.DigitsOnly(info.ZipCode)
		if len(digits) != 8 {
			return shared.NewDomainError("INVALID_ZIP_CODE", "Zip code must have 8 digits")
		}
		info.ZipCode = digits[:5] + "-" + digits[5:]
	}

	c.ClientInfo = info
	c.Touch()
	return nil
}

// AssignRepresentative sets the representative responsible for the client
func (c *Client) AssignRepresentative(userID *uuid.UUID) {
	c.RepresentativeID = userID
	c.Touch()
}

// Activate makes the client selectable for new orders
func (c *Client) Activate() error {
	if c.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}
	c.Active = true
	c.Touch()
	return nil
}

// Deactivate hides the client without touching its orders
func (c *Client) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Client is already deactivated")
	}
	c.Active = false
	c.Touch()
	return nil
}

// IsOwnedBy reports whether the representative is assigned to this client
func (c *Client) IsOwnedBy(userID uuid.UUID) bool {
	return c.RepresentativeID != nil && *c.RepresentativeID == userID
}

// CNPJVerified reports whether the stored document passes the check digit test
func (c *Client) CNPJVerified() bool {
	return c.CNPJ != "" && valueobject.DocumentCheckDigitsValid(c.CNPJ)
}
