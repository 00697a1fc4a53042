// Package deliverylog records every email delivery attempt in Postgres.
package deliverylog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

type Delivery struct {
	ID        uint   `gorm:"primaryKey"`
	TraceID   string `gorm:"size:64;index"`
	EventType string `gorm:"size:32;index;not null"`
	Recipient string `gorm:"size:255;not null"`
	Subject   string `gorm:"size:255"`
	Status    string `gorm:"size:16;not null"`
	Error     string `gorm:"type:text"`
	CreatedAt time.Time
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Delivery{})
}

func (r *Repository) Record(ctx context.Context, d *Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// Recent returns the latest deliveries to recipient, newest first.
func (r *Repository) Recent(ctx context.Context, recipient string, limit int) ([]Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out []Delivery
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return out, nil
}
