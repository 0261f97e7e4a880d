package sqldb

import (
	"context"

	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// ProposalRepository stores proposal requests.
type ProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a proposal repository.
func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create inserts a proposal request.
func (r *ProposalRepository) Create(ctx context.Context, p *model.ProposalRequest) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Get returns one proposal request.
func (r *ProposalRepository) Get(ctx context.Context, id string) (*model.ProposalRequest, error) {
	var p model.ProposalRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// List returns proposal requests, newest first.
func (r *ProposalRepository) List(ctx context.Context) ([]model.ProposalRequest, error) {
	var out []model.ProposalRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// UpdateStatus sets the status of a proposal request.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&model.ProposalRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
