package rdb

import "time"

// EndpointRecord is the RDB persistence model for domain EndpointRecord.
// Table name: endpoints
type EndpointRecord struct {
	ID          string    `gorm:"primaryKey;type:text;not null"`
	RunID       string    `gorm:"type:text;not null;index"`
	ClusterName string    `gorm:"type:text;not null;index"`
	URL         string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (EndpointRecord) TableName() string { return "endpoints" }
