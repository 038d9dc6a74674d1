package model

import "time"

// EndpointRecord is the persisted outcome of one deployed target.
type EndpointRecord struct {
	ID          string
	RunID       string // groups records belonging to one orchestration run
	ClusterName string
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
