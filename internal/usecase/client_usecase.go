package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// ClientUseCase handles administrative actions on client records.
type ClientUseCase struct {
	clientRepo ClientRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, auditRepo AuditRepository, idGen IDGenerator, logger zerolog.Logger) *ClientUseCase {
	return &ClientUseCase{
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		logger:     logger,
	}
}

// GetClient returns a single client record.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// BlockClient suspends a client. Blocked clients keep their wallet and
// trading account but new funding requests are refused at the API edge.
func (uc *ClientUseCase) BlockClient(ctx context.Context, id, actorID string) (*domain.Client, error) {
	return uc.setStatus(ctx, id, actorID, domain.ClientStatusBlocked, domain.AuditActionClientBlock)
}

// UnblockClient reinstates a suspended client.
func (uc *ClientUseCase) UnblockClient(ctx context.Context, id, actorID string) (*domain.Client, error) {
	return uc.setStatus(ctx, id, actorID, domain.ClientStatusActive, domain.AuditActionClientUnblock)
}

func (uc *ClientUseCase) setStatus(ctx context.Context, id, actorID string, status domain.ClientStatus, action domain.AuditAction) (*domain.Client, error) {
	now := time.Now().UTC()

	client, err := uc.clientRepo.SetStatus(ctx, id, status, now)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("client_id", id).
		Str("actor_id", actorID).
		Str("status", string(status)).
		Msg("client status changed")

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actorID,
			Action:       string(action),
			ResourceType: "client",
			ResourceID:   id,
			AfterState:   domain.MarshalState(client),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.Create(ctx, auditLog); err != nil {
			uc.logger.Warn().Err(err).Str("client_id", id).Msg("audit log write failed")
		}
	}

	return client, nil
}
