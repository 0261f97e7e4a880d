package sqldb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// CatalogProvider serves the active chatbot configuration.
// It errors when no configuration is active, so callers can fall back to
// the built-in catalog.
type CatalogProvider struct {
	db *gorm.DB
}

// NewCatalogProvider creates a provider.
func NewCatalogProvider(db *gorm.DB) *CatalogProvider {
	return &CatalogProvider{db: db}
}

// Catalog implements ports.CatalogProvider.
func (p *CatalogProvider) Catalog(ctx context.Context) (*domain.Catalog, error) {
	var cfg model.ChatbotConfig
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, fmt.Errorf("no active chatbot config: %w", notFound(err))
	}

	var raw []any
	if err := json.Unmarshal([]byte(cfg.Intents), &raw); err != nil {
		return nil, fmt.Errorf("chatbot config %d: %w", cfg.ID, err)
	}
	return catalog.Decode(cfg.Name, strconv.FormatInt(cfg.UpdatedAt.Unix(), 10), raw)
}

// SaveConfig stores a catalog as a chatbot configuration. When active is set
// every other configuration is deactivated.
func (p *CatalogProvider) SaveConfig(ctx context.Context, c *domain.Catalog, active bool) (*model.ChatbotConfig, error) {
	data, err := json.Marshal(catalog.Encode(c))
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	cfg := model.ChatbotConfig{Name: c.Name, Intents: string(data), IsActive: active}
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if active {
			if err := tx.Model(&model.ChatbotConfig{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&cfg).Error
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigByName returns the most recent configuration with the given name.
func (p *CatalogProvider) ConfigByName(ctx context.Context, name string) (*model.ChatbotConfig, error) {
	var cfg model.ChatbotConfig
	err := p.db.WithContext(ctx).Where("name = ?", name).Order("id DESC").First(&cfg).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &cfg, nil
}
