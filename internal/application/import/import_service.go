// Package importapp turns uploaded client and product spreadsheets into
// records. An upload is previewed first and committed in a second request.
package importapp

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	csvimport "github.com/filterdesk/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the import service
var (
	ErrSessionNotFound = shared.NewDomainError("IMPORT_SESSION_NOT_FOUND", "The import session expired or does not exist, upload the file again")
	ErrSessionNotOwned = shared.NewDomainError("FORBIDDEN", "This import session belongs to another user")
	ErrInvalidEntity   = shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity must be clients or products")
)

// SessionStore keeps previews between the upload and the commit
type SessionStore interface {
	Get(ctx context.Context, key string) (*Session, bool, error)
	Set(ctx context.Context, key string, value *Session) error
	Delete(ctx context.Context, key string) error
}

// ImportMetrics records committed rows
type ImportMetrics interface {
	ImportCommitted(ctx context.Context, entity string, rows int)
}

// StatsInvalidator drops cached dashboard figures after clients are imported
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ImportService handles spreadsheet uploads
type ImportService struct {
	txScope     appshared.TransactionScope
	historyRepo bulk.ImportHistoryRepository
	regionRepo  region.RegionRepository
	userRepo    identity.UserRepository
	sessions    SessionStore
	cfg         config.ImportConfig
	metrics     ImportMetrics
	stats       StatsInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewImportService creates a new ImportService
func NewImportService(
	txScope appshared.TransactionScope,
	historyRepo bulk.ImportHistoryRepository,
	regionRepo region.RegionRepository,
	userRepo identity.UserRepository,
	sessions SessionStore,
	cfg config.ImportConfig,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		txScope:     txScope,
		historyRepo: historyRepo,
		regionRepo:  regionRepo,
		userRepo:    userRepo,
		sessions:    sessions,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SetMetrics installs the committed-rows recorder
func (s *ImportService) SetMetrics(m ImportMetrics) {
	s.metrics = m
}

// SetStatsInvalidator installs the dashboard cache to clear after client imports
func (s *ImportService) SetStatsInvalidator(stats StatsInvalidator) {
	s.stats = stats
}

// Preview parses an upload, maps its headers and keeps the rows for commit.
// Nothing is written to the database.
func (s *ImportService) Preview(ctx context.Context, actor appshared.Actor, entity, fileName string, data []byte) (*PreviewResponse, error) {
	entityType := bulk.ImportEntityType(entity)
	if !entityType.IsValid() {
		return nil, ErrInvalidEntity
	}

	table, err := csvimport.Parse(fileName, data, csvimport.WithMaxRows(s.cfg.MaxRows))
	if err != nil {
		return nil, err
	}

	mappings := bulk.MapHeaders(entityType, table.Headers)
	if err := bulk.ValidateMinimumFields(mappings); err != nil {
		return nil, err
	}
	rows := bulk.ApplyMapping(mappings, table.Records)

	session := &Session{
		ID:        uuid.New(),
		Entity:    entityType,
		FileName:  fileName,
		UserID:    actor.UserID,
		Headers:   mappings,
		Rows:      rows,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Set(ctx, session.ID.String(), session); err != nil {
		return nil, fmt.Errorf("failed to store import session: %w", err)
	}

	s.logger.Info("Import previewed",
		zap.String("session_id", session.ID.String()),
		zap.String("entity", entity),
		zap.String("file_name", fileName),
		zap.Int("rows", len(rows)))

	return &PreviewResponse{
		SessionID: session.ID,
		Entity:    entity,
		FileName:  fileName,
		Headers:   mappings,
		TotalRows: len(rows),
		Preview:   bulk.Preview(rows),
		ExpiresAt: session.CreatedAt.Add(s.cfg.SessionTTL),
	}, nil
}

// Session returns a stored preview of the actor
func (s *ImportService) Session(ctx context.Context, actor appshared.Actor, sessionID uuid.UUID) (*Session, error) {
	session, ok, err := s.sessions.Get(ctx, sessionID.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.UserID != actor.UserID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

// Commit persists every row of a preview in one transaction. Any invalid
// row or constraint violation aborts the whole file; the failure is still
// recorded in the import history.
func (s *ImportService) Commit(ctx context.Context, actor appshared.Actor, sessionID uuid.UUID) (*CommitResponse, error) {
	session, err := s.Session(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := bulk.NewImportHistory(session.Entity, session.FileName, len(session.Rows), actor.UserID)
	if err != nil {
		return nil, err
	}

	created, err := s.persist(ctx, actor, session, history)
	if err != nil {
		history.Fail(err.Error())
		if saveErr := s.historyRepo.Save(ctx, history); saveErr != nil {
			s.logger.Error("Failed to record failed import",
				zap.String("session_id", session.ID.String()),
				zap.Error(saveErr))
		}
		s.logger.Warn("Import rolled back",
			zap.String("session_id", session.ID.String()),
			zap.String("entity", string(session.Entity)),
			zap.Error(err))
		return nil, err
	}

	if err := s.sessions.Delete(ctx, session.ID.String()); err != nil {
		s.logger.Warn("Failed to drop import session", zap.Error(err))
	}

	s.logger.Info("Import committed",
		zap.String("history_id", history.ID.String()),
		zap.String("entity", string(session.Entity)),
		zap.Int("created", created))
	if s.metrics != nil {
		s.metrics.ImportCommitted(ctx, string(session.Entity), created)
	}
	if s.stats != nil && session.Entity == bulk.ImportEntityClients {
		if err := s.stats.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	return &CommitResponse{
		HistoryID:   history.ID,
		Entity:      string(session.Entity),
		FileName:    session.FileName,
		TotalRows:   len(session.Rows),
		CreatedRows: created,
	}, nil
}

func (s *ImportService) persist(ctx context.Context, actor appshared.Actor, session *Session, history *bulk.ImportHistory) (int, error) {
	switch session.Entity {
	case bulk.ImportEntityClients:
		clients, err := s.buildClients(ctx, actor, session.Rows)
		if err != nil {
			return 0, err
		}
		entries := make([]*partner.ClientHistory, len(clients))
		for i, c := range clients {
			entry, err := partner.NewClientHistory(c.ID, actor.UserID, partner.HistoryImport,
				fmt.Sprintf("Importado do arquivo %s", session.FileName), nil)
			if err != nil {
				return 0, err
			}
			entries[i] = entry
		}
		history.Complete(len(clients))
		return len(clients), s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
			if err := repos.ClientRepo().SaveBatch(ctx, clients); err != nil {
				return err
			}
			if err := repos.ClientHistoryRepo().SaveBatch(ctx, entries); err != nil {
				return err
			}
			return repos.ImportHistoryRepo().Save(ctx, history)
		})

	case bulk.ImportEntityProducts:
		products, err := s.buildProducts(session.Rows)
		if err != nil {
			return 0, err
		}
		history.Complete(len(products))
		return len(products), s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
			if err := repos.ProductRepo().SaveBatch(ctx, products); err != nil {
				return err
			}
			return repos.ImportHistoryRepo().Save(ctx, history)
		})
	}
	return 0, ErrInvalidEntity
}

// History lists committed and failed imports, newest first
func (s *ImportService) History(ctx context.Context, input HistoryListFilter) (*shared.Paginated[HistoryResponse], error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.EntityType != "" {
		filter = filter.With("entity_type", input.EntityType)
	}
	if input.Status != "" {
		filter = filter.With("status", input.Status)
	}
	if input.ImportedBy != "" {
		userID, err := uuid.Parse(input.ImportedBy)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid imported_by")
		}
		filter = filter.With("imported_by", userID)
	}

	entries, total, err := s.historyRepo.FindAll(ctx, filter)
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
