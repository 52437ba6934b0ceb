package partner

import (
	"context"
	"errors"
	"strings"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClientNotOwned is returned when a representative touches another representative's client
var ErrClientNotOwned = shared.NewDomainError("FORBIDDEN", "This client is assigned to another representative")

// StatsInvalidator drops cached dashboard figures after clients change
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ClientService handles client management. Representatives only see and
// edit the clients assigned to them.
type ClientService struct {
	clientRepo  partner.ClientRepository
	historyRepo partner.ClientHistoryRepository
	regionRepo  region.RegionRepository
	userRepo    identity.UserRepository
	stats       StatsInvalidator
	logger      *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo partner.ClientRepository,
	historyRepo partner.ClientHistoryRepository,
	regionRepo region.RegionRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		historyRepo: historyRepo,
		regionRepo:  regionRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// SetStatsInvalidator installs the dashboard cache to clear on client changes
func (s *ClientService) SetStatsInvalidator(stats StatsInvalidator) {
	s.stats = stats
}

// List searches clients within the actor's scope
func (s *ClientService) List(ctx context.Context, actor appshared.Actor, input ClientListFilter) (*shared.Paginated[ClientResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = strings.TrimSpace(input.Search)
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.Active != nil {
		filter = filter.With("active", *input.Active)
	}
	if input.State != "" {
		filter = filter.With("state", input.State)
	}
	if input.RegionID != "" {
		regionID, err := uuid.Parse(input.RegionID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid region_id")
		}
		filter = filter.With("region_id", regionID)
	}
	if scope := actor.RepresentativeScope(); scope != nil {
		filter = filter.With("representative_id", *scope)
	} else if input.RepresentativeID != "" {
		repID, err := uuid.Parse(input.RepresentativeID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid representative_id")
		}
		filter = filter.With("representative_id", repID)
	}

	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one client
func (s *ClientService) GetByID(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// Create creates a client. A representative always becomes the owner of the
// clients they create.
func (s *ClientService) Create(ctx context.Context, actor appshared.Actor, input ClientInput) (*ClientResponse, error) {
	info := input.toInfo()
	if !actor.IsAdmin() {
		info.RepresentativeID = &actor.UserID
	}
	if err := s.checkReferences(ctx, info); err != nil {
		return nil, err
	}

	client, err := partner.NewClient(info)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, client, nil); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name))
	s.invalidateStats(ctx)

	resp := ToClientResponse(client)
	return &resp, nil
}

// Update replaces a client's fields. Representatives cannot reassign the client.
func (s *ClientService) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ClientInput) (*ClientResponse, error) {
	client, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	info := input.toInfo()
	if !actor.IsAdmin() {
		info.RepresentativeID = client.RepresentativeID
	}
	if err := s.checkReferences(ctx, info); err != nil {
		return nil, err
	}

	previousRep := client.RepresentativeID
	if err := client.Update(info); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, client, &client.ID); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	if !sameID(previousRep, client.RepresentativeID) {
		s.recordHistory(ctx, client.ID, actor.UserID, partner.HistoryStatusChange, "Representante alterado")
		s.invalidateStats(ctx)
	}

	resp := ToClientResponse(client)
	return &resp, nil
}

// Activate makes a client selectable for orders again
func (s *ClientService) Activate(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := client.Activate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, client.ID, actor.UserID, partner.HistoryStatusChange, "Cliente reativado")
	s.invalidateStats(ctx)

	resp := ToClientResponse(client)
	return &resp, nil
}

// Deactivate hides a client without touching its orders
func (s *ClientService) Deactivate(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := client.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, client.ID, actor.UserID, partner.HistoryStatusChange, "Cliente desativado")
	s.invalidateStats(ctx)

	resp := ToClientResponse(client)
	return &resp, nil
}

// History lists a client's timeline, newest first
func (s *ClientService) History(ctx context.Context, actor appshared.Actor, id uuid.UUID, input HistoryListFilter) (*shared.Paginated[HistoryResponse], error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.Kind != "" {
		filter = filter.With("kind", input.Kind)
	}

	entries, total, err := s.historyRepo.FindByClient(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryResponse, len(entries))
	for i := range entries {
		items[i] = ToHistoryResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AddNote appends a free-text note to the client's timeline
func (s *ClientService) AddNote(ctx context.Context, actor appshared.Actor, id uuid.UUID, input NoteInput) (*HistoryResponse, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}

	entry, err := partner.NewClientHistory(id, actor.UserID, partner.HistoryNote, input.Description, nil)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	resp := ToHistoryResponse(entry)
	return &resp, nil
}

// Stats counts clients in the actor's scope
func (s *ClientService) Stats(ctx context.Context, actor appshared.Actor) (*partner.ClientStats, error) {
	return s.clientRepo.Stats(ctx, actor.RepresentativeScope())
}

func (s *ClientService) load(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(client.RepresentativeID) {
		return nil, ErrClientNotOwned
	}
	return client, nil
}

// checkReferences verifies that the region and representative exist
func (s *ClientService) checkReferences(ctx context.Context, info partner.ClientInfo) error {
	if info.RegionID != nil {
		if _, err := s.regionRepo.FindByID(ctx, *info.RegionID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_REGION", "Region not found")
			}
			return err
		}
	}
	if info.RepresentativeID != nil {
		user, err := s.userRepo.FindByID(ctx, *info.RepresentativeID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_REPRESENTATIVE", "Representative not found")
			}
			return err
		}
		if user.Role != identity.RoleRepresentative {
			return shared.NewDomainError("INVALID_REPRESENTATIVE", "Clients can only be assigned to representatives")
		}
	}
	return nil
}

func (s *ClientService) checkUnique(ctx context.Context, client *partner.Client, excludeID *uuid.UUID) error {
	if client.Code != "" {
		exists, err := s.clientRepo.ExistsByCode(ctx, client.Code, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Client code "+client.Code+" is already in use")
		}
	}
	if client.CNPJ != "" {
		exists, err := s.clientRepo.ExistsByCNPJ(ctx, client.CNPJ, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "CNPJ "+client.CNPJ+" is already registered")
		}
	}
	return nil
}

// recordHistory appends a timeline entry; the change itself is already saved
func (s *ClientService) recordHistory(ctx context.Context, clientID, userID uuid.UUID, kind partner.HistoryKind, description string) {
	entry, err := partner.NewClientHistory(clientID, userID, kind, description, nil)
	if err == nil {
		err = s.historyRepo.Save(ctx, entry)
	}
	if err != nil {
		s.logger.Warn("Failed to record client history",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
	}
}

func (s *ClientService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
