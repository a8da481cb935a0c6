package service

import (
	"context"

	"newsbrief/internal/api/dto"
	"newsbrief/internal/api/repository"
	"newsbrief/internal/entity"
	"newsbrief/pkg/logger"
)

// GenerationService exposes the pipeline run history.
type GenerationService interface {
	ListGenerations(ctx context.Context, limit int) ([]*dto.GenerationResponse, error)
	GetGenerationByID(ctx context.Context, id uint) (*dto.GenerationResponse, error)
}

// NewGenerationService creates a new generation service.
func NewGenerationService(generationRepo repository.GenerationRepository, log *logger.Logger) GenerationService {
	return &generationService{
		generationRepo: generationRepo,
		logger:         log,
	}
}

type generationService struct {
	generationRepo repository.GenerationRepository
	logger         *logger.Logger
}

// ListGenerations retrieves recent pipeline runs.
func (s *generationService) ListGenerations(ctx context.Context, limit int) ([]*dto.GenerationResponse, error) {
	generations, err := s.generationRepo.FindAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.GenerationResponse, 0, len(generations))
	for i := range generations {
		responses = append(responses, mapToGenerationResponse(&generations[i]))
	}
	return responses, nil
}

// GetGenerationByID retrieves one pipeline run. A nil response means
// the run does not exist.
func (s *generationService) GetGenerationByID(ctx context.Context, id uint) (*dto.GenerationResponse, error) {
	generation, err := s.generationRepo.FindByID(ctx, id)
	if err != nil || generation == nil {
		return nil, err
	}
	return mapToGenerationResponse(generation), nil
}

// mapToGenerationResponse maps an entity.StoryGeneration to its DTO.
func mapToGenerationResponse(generation *entity.StoryGeneration) *dto.GenerationResponse {
	resp := &dto.GenerationResponse{
		ID:           generation.ID,
		Status:       generation.Status,
		Model:        generation.Model,
		ArticleCount: generation.ArticleCount,
		ClusterCount: generation.ClusterCount,
		StoryCount:   generation.StoryCount,
		StartedAt:    generation.StartedAt,
	}
	if generation.ErrorMessage.Valid {
		resp.ErrorMessage = generation.ErrorMessage.String
	}
	if generation.CompletedAt.Valid {
		completed := generation.CompletedAt.Time
		resp.CompletedAt = &completed
	}
	return resp
}
