package service

import (
	"context"

	"hotelmgr/internal/domain"
	"hotelmgr/internal/models"

	"github.com/rs/zerolog"
)

type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetSessionState(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state, err := s.stateRepo.GetState(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get session state")
		return nil, err
	}

	return state, nil
}

func (s *StateService) SetSessionState(ctx context.Context, sessionID string, step string, data map[string]interface{}) error {
	state := &models.SessionState{
		SessionID: sessionID,
		Step:      step,
		Data:      data,
	}
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearSessionState(ctx context.Context, sessionID string) error {
	return s.stateRepo.ClearState(ctx, sessionID)
}
