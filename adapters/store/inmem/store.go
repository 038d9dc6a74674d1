// Package inmem provides an in-memory implementation of the domain
// repositories, used by tests and by runs without a db-url.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetform/fleetform/domain"
	"github.com/fleetform/fleetform/domain/model"
)

// EndpointRepository keeps endpoint records in process memory.
type EndpointRepository struct {
	mu      sync.RWMutex
	records map[string]*model.EndpointRecord
}

func NewEndpointRepository() *EndpointRepository {
	return &EndpointRepository{records: map[string]*model.EndpointRecord{}}
}

func (r *EndpointRepository) Create(_ context.Context, e *model.EndpointRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = "ep-" + uuid.NewString()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	cp := *e
	r.records[e.ID] = &cp
	return nil
}

// GetByCluster returns the most recent record for a cluster.
func (r *EndpointRepository) GetByCluster(_ context.Context, clusterName string) (*model.EndpointRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *model.EndpointRecord
	for _, rec := range r.records {
		if rec.ClusterName != clusterName {
			continue
		}
		if found == nil || rec.CreatedAt.After(found.CreatedAt) {
			found = rec
		}
	}
	if found == nil {
		return nil, model.ErrEndpointNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *EndpointRepository) List(_ context.Context) ([]*model.EndpointRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.EndpointRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *EndpointRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return model.ErrEndpointNotFound
	}
	delete(r.records, id)
	return nil
}

var _ domain.EndpointRepository = (*EndpointRepository)(nil)
