package usecase

import (
	"context"
	"log/slog"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type ServiceListOutput struct {
	Services []entity.Service
}

// ServiceList is the public catalog, ordered by name.
func (s *Usecase) ServiceList(ctx context.Context) (*ServiceListOutput, error) {
	ctx, span := s.startSpan(ctx, "ServiceList")
	defer span.End()

	services, err := s.repoDB.GetServices(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get services", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ServiceListOutput{Services: services}, nil
}
