package sqldb

import (
	"context"
	"errors"

	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository stores marketing content: features, clients,
// testimonials and contact submissions.
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a content repository.
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Features returns features ordered by display order. An empty featureType
// returns every feature.
func (r *ContentRepository) Features(ctx context.Context, featureType string) ([]model.Feature, error) {
	q := r.db.WithContext(ctx).Order("sort_order ASC, id ASC")
	if featureType != "" {
		q = q.Where("feature_type = ?", featureType)
	}
	var out []model.Feature
	err := q.Find(&out).Error
	return out, err
}

// UpsertFeature creates the feature or updates the one with the same name.
func (r *ContentRepository) UpsertFeature(ctx context.Context, f *model.Feature) error {
	var existing model.Feature
	err := r.db.WithContext(ctx).Where("name = ?", f.Name).First(&existing).Error
	if err == nil {
		f.ID = existing.ID
		return r.db.WithContext(ctx).Save(f).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(f).Error
}

// Clients returns every client, newest first.
func (r *ContentRepository) Clients(ctx context.Context) ([]model.Client, error) {
	var out []model.Client
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// UpsertClient creates the client, or loads the existing one with the same email.
func (r *ContentRepository) UpsertClient(ctx context.Context, c *model.Client) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(c).Error
	if err != nil {
		return err
	}
	var stored model.Client
	if err := r.db.WithContext(ctx).Where("email = ?", c.Email).First(&stored).Error; err != nil {
		return err
	}
	*c = stored
	return nil
}

// Testimonials returns featured testimonials with their client, newest
// first. A positive limit caps the result.
func (r *ContentRepository) Testimonials(ctx context.Context, limit int) ([]model.Testimonial, error) {
	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("is_featured = ?", true).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.Testimonial
	err := q.Find(&out).Error
	return out, err
}

// CreateTestimonial stores a testimonial unless the client already has one
// with the same content.
func (r *ContentRepository) CreateTestimonial(ctx context.Context, t *model.Testimonial) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Testimonial{}).
		Where("client_id = ? AND content = ?", t.ClientID, t.Content).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return r.db.WithContext(ctx).Omit("Client").Create(t).Error
}

// CreateContact stores a contact form submission.
func (r *ContentRepository) CreateContact(ctx context.Context, c *model.Contact) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Contacts returns submissions, newest first.
func (r *ContentRepository) Contacts(ctx context.Context) ([]model.Contact, error) {
	var out []model.Contact
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}
