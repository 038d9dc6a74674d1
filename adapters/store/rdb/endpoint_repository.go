package rdb

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetform/fleetform/domain"
	"github.com/fleetform/fleetform/domain/model"
)

// EndpointRepository is a GORM-backed implementation of domain.EndpointRepository.
type EndpointRepository struct{ db *gorm.DB }

func NewEndpointRepository(db *gorm.DB) *EndpointRepository { return &EndpointRepository{db: db} }

func endpointToRecord(e *model.EndpointRecord) *EndpointRecord {
	return &EndpointRecord{
		ID: e.ID, RunID: e.RunID, ClusterName: e.ClusterName, URL: e.URL,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func endpointToModel(r *EndpointRecord) *model.EndpointRecord {
	return &model.EndpointRecord{
		ID: r.ID, RunID: r.RunID, ClusterName: r.ClusterName, URL: r.URL,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *EndpointRepository) Create(ctx context.Context, e *model.EndpointRecord) error {
	rec := endpointToRecord(e)
	if rec.ID == "" {
		rec.ID = "ep-" + uuid.NewString()
		e.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// GetByCluster returns the most recent record for a cluster.
func (r *EndpointRepository) GetByCluster(ctx context.Context, clusterName string) (*model.EndpointRecord, error) {
	var rec EndpointRecord
	err := r.db.WithContext(ctx).Where("cluster_name = ?", clusterName).Order("created_at DESC").First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrEndpointNotFound
		}
		return nil, err
	}
	return endpointToModel(&rec), nil
}

func (r *EndpointRepository) List(ctx context.Context) ([]*model.EndpointRecord, error) {
	var recs []EndpointRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.EndpointRecord, 0, len(recs))
	for i := range recs {
		out = append(out, endpointToModel(&recs[i]))
	}
	return out, nil
}

func (r *EndpointRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&EndpointRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrEndpointNotFound
	}
	return nil
}

var _ domain.EndpointRepository = (*EndpointRepository)(nil)
