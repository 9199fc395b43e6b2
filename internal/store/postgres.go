package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresRepository struct {
	db *gorm.DB
}

var _ Repository = (*PostgresRepository)(nil)

// OpenPostgres connects to dsn and migrates the rounds table.
func OpenPostgres(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Round{}); err != nil {
		return nil, fmt.Errorf("migrate rounds: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

func (p *PostgresRepository) SaveRound(ctx context.Context, r *Round) error {
	return p.db.WithContext(ctx).Create(r).Error
}

func (p *PostgresRepository) RecentRounds(ctx context.Context, limit int) ([]Round, error) {
	var rounds []Round
	err := p.db.WithContext(ctx).Order("ended_at desc").Limit(limit).Find(&rounds).Error
	return rounds, err
}

func (p *PostgresRepository) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
