package domain

import (
	"context"

	"github.com/fleetform/fleetform/domain/model"
)

// EndpointRepository stores and retrieves deployed endpoint records.
type EndpointRepository interface {
	Create(ctx context.Context, e *model.EndpointRecord) error
	GetByCluster(ctx context.Context, clusterName string) (*model.EndpointRecord, error)
	List(ctx context.Context) ([]*model.EndpointRecord, error)
	Delete(ctx context.Context, id string) error
}
