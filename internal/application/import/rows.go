package importapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeImportRow marks an error tied to one line of the uploaded file
const CodeImportRow = "IMPORT_INVALID_ROW"

// rowError reports a problem on a 1-based data line. Line 1 is the header,
// so the first record is line 2.
func rowError(index int, err error) error {
	msg := err.Error()
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		msg = domainErr.Message
	}
	return shared.NewDomainError(CodeImportRow, fmt.Sprintf("Line %d: %s", index+2, msg))
}

// referenceResolver looks up regions and representatives by the names used
// in spreadsheets, remembering every answer for the rest of the file
type referenceResolver struct {
	svc     *ImportService
	regions map[string]*uuid.UUID
	reps    map[string]*uuid.UUID
}

func (s *ImportService) newResolver() *referenceResolver {
	return &referenceResolver{
		svc:     s,
		regions: make(map[string]*uuid.UUID),
		reps:    make(map[string]*uuid.UUID),
	}
}

func (r *referenceResolver) region(ctx context.Context, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := r.regions[key]; ok {
		return id, nil
	}
	found, err := r.svc.regionRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_REGION", fmt.Sprintf("Unknown region %q", name))
		}
		return nil, err
	}
	r.regions[key] = &found.ID
	return &found.ID, nil
}

// representative accepts the representative's e-mail address
func (r *referenceResolver) representative(ctx context.Context, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	key := strings.ToLower(email)
	if id, ok := r.reps[key]; ok {
		return id, nil
	}
	user, err := r.svc.userRepo.FindByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_REPRESENTATIVE", fmt.Sprintf("No representative with e-mail %q", email))
		}
		return nil, err
	}
	if user.Role != identity.RoleRepresentative {
		return nil, shared.NewDomainError("INVALID_REPRESENTATIVE", fmt.Sprintf("%s is not a representative", email))
	}
	r.reps[key] = &user.ID
	return &user.ID, nil
}

// buildClients validates every row before anything is written. Clients
// imported by a representative are assigned to them.
func (s *ImportService) buildClients(ctx context.Context, actor appshared.Actor, rows []bulk.Row) ([]*partner.Client, error) {
	resolver := s.newResolver()
	seenCode := make(map[string]int)
	seenCNPJ := make(map[string]int)
	clients := make([]*partner.Client, 0, len(rows))

	for i, row := range rows {
		info := partner.ClientInfo{
			Code:              row.Get(bulk.FieldCode),
			Name:              row.Get(bulk.FieldName),
			TradeName:         row.Get(bulk.FieldTradeName),
			CNPJ:              row.Get(bulk.FieldCNPJ),
			StateRegistration: row.Get(bulk.FieldStateRegistration),
			Phone:             row.Get(bulk.FieldPhone),
			Email:             row.Get(bulk.FieldEmail),
			Address:           row.Get(bulk.FieldAddress),
			City:              row.Get(bulk.FieldCity),
			State:             row.Get(bulk.FieldState),
			ZipCode:           row.Get(bulk.FieldZipCode),
		}
		if info.Name == "" {
			info.Name = info.TradeName
		}

		var err error
		if info.RegionID, err = resolver.region(ctx, row.Get(bulk.FieldRegion)); err != nil {
			return nil, rowError(i, err)
		}
		if actor.IsAdmin() {
			if info.RepresentativeID, err = resolver.representative(ctx, row.Get(bulk.FieldRepresentative)); err != nil {
				return nil, rowError(i, err)
			}
		} else {
			info.RepresentativeID = &actor.UserID
		}

		client, err := partner.NewClient(info)
		if err != nil {
			return nil, rowError(i, err)
		}
		if client.Code != "" {
			if prev, dup := seenCode[client.Code]; dup {
				return nil, rowError(i, fmt.Errorf("code %s repeats line %d", client.Code, prev+2))
			}
			seenCode[client.Code] = i
		}
		if client.CNPJ != "" {
			if prev, dup := seenCNPJ[client.CNPJ]; dup {
				return nil, rowError(i, fmt.Errorf("CNPJ %s repeats line %d", client.CNPJ, prev+2))
			}
			seenCNPJ[client.CNPJ] = i
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (s *ImportService) buildProducts(rows []bulk.Row) ([]*catalog.Product, error) {
	seen := make(map[string]int)
	products := make([]*catalog.Product, 0, len(rows))

	for i, row := range rows {
		price := decimal.Zero
		if raw := row.Get(bulk.FieldPrice); raw != "" {
			parsed, err := valueobject.ParseAmount(raw)
			if err != nil {
				return nil, rowError(i, fmt.Errorf("invalid price %q", raw))
			}
			price = parsed
		}
		product, err := catalog.NewProduct(catalog.ProductInfo{
			Code:        row.Get(bulk.FieldCode),
			Name:        row.Get(bulk.FieldName),
			Brand:       row.Get(bulk.FieldBrand),
			Description: row.Get(bulk.FieldDescription),
			Category:    row.Get(bulk.FieldCategory),
			Application: row.Get(bulk.FieldApplication),
			UnitPrice:   price,
			Barcode:     row.Get(bulk.FieldBarcode),
		})
		if err != nil {
			return nil, rowError(i, err)
		}
		if prev, dup := seen[product.Code]; dup {
			return nil, rowError(i, fmt.Errorf("code %s repeats line %d", product.Code, prev+2))
		}
		seen[product.Code] = i
		products = append(products, product)
	}
	return products, nil
}
