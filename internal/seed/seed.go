// Package seed loads the initial marketing content and chatbot
// configuration. Running it twice leaves the database unchanged.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// Options control a seed run.
type Options struct {
	// Activate makes the seeded chatbot configuration the one the engine serves.
	Activate bool
	Logger   *slog.Logger
}

// Result counts what a run wrote or found.
type Result struct {
	Features     int
	Clients      int
	Testimonials int
	Config       *model.ChatbotConfig
}

var features = []model.Feature{
	{Name: "Automated Grading", Description: "Instant grading with detailed analytics and performance reports", Icon: "bi-speedometer2", FeatureType: model.FeatureCBT, Order: 1},
	{Name: "Question Bank", Description: "Organized question repository with tagging and categorization", Icon: "bi-database", FeatureType: model.FeatureCBT, Order: 2},
	{Name: "Anti-Cheat System", Description: "Advanced monitoring for exam integrity with screen recording", Icon: "bi-shield-check", FeatureType: model.FeatureCBT, Order: 3},
	{Name: "Virtual Whiteboard", Description: "Interactive whiteboard for live teaching with drawing tools", Icon: "bi-easel", FeatureType: model.FeatureLive, Order: 1},
	{Name: "Session Recording", Description: "Record and replay all classroom sessions for later review", Icon: "bi-camera-reels", FeatureType: model.FeatureLive, Order: 2},
	{Name: "Breakout Rooms", Description: "Create separate discussion groups for collaborative learning", Icon: "bi-people", FeatureType: model.FeatureLive, Order: 3},
	{Name: "Custom Branding", Description: "Your logo, colors, and domain name on the platform", Icon: "bi-palette", FeatureType: model.FeatureGeneral, Order: 1},
	{Name: "Multi-Platform", Description: "Works on web, tablets, and mobile devices", Icon: "bi-phone", FeatureType: model.FeatureGeneral, Order: 2},
	{Name: "Analytics Dashboard", Description: "Comprehensive analytics for student performance", Icon: "bi-graph-up", FeatureType: model.FeatureGeneral, Order: 3},
}

type clientSeed struct {
	client      model.Client
	testimonial string
	rating      int
}

var clients = []clientSeed{
	{
		client: model.Client{
			Name: "Dr. Adebayo Johnson", Email: "adebayo@prestigeacademy.edu.ng", Phone: "+2348012345678",
			InstitutionName: "Prestige Academy", Country: "Nigeria", Currency: "NGN",
			NeedsCBT: true, NeedsLiveClasses: true, PrimaryColor: "#1E3A8A", SecondaryColor: "#10B981", IsActive: true,
		},
		testimonial: "JavaNet EdTech Suite transformed our examination process. The CBT system reduced grading time by 80% and the analytics helped us identify learning gaps.",
		rating:      5,
	},
	{
		client: model.Client{
			Name: "Sarah Williams", Email: "sarah@globalinstitute.com", Phone: "+1-555-0123",
			InstitutionName: "Global Institute of Technology", Country: "United States", Currency: "USD",
			NeedsCBT: true, PrimaryColor: "#7C3AED", SecondaryColor: "#F59E0B", IsActive: true,
		},
		testimonial: "As an international institution, we needed a platform that could handle our diverse student base. JavaNet delivered with their white-label solution.",
		rating:      5,
	},
	{
		client: model.Client{
			Name: "Kwame Mensah", Email: "kwame@accratechschool.edu.gh", Phone: "+233201234567",
			InstitutionName: "Accra Tech School", Country: "Ghana", Currency: "NGN",
			NeedsCBT: true, NeedsLiveClasses: true, PrimaryColor: "#059669", SecondaryColor: "#DC2626", IsActive: true,
		},
		testimonial: "The live classroom feature has been a game-changer for our remote learning programs. Easy to use and highly reliable.",
		rating:      4,
	},
}

// Run writes the initial data.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	content := sqldb.NewContentRepository(db)
	res := &Result{}

	for _, f := range features {
		if err := content.UpsertFeature(ctx, &f); err != nil {
			return nil, fmt.Errorf("failed to seed feature %q: %w", f.Name, err)
		}
		res.Features++
	}
	logger.Info("seeded features", "count", res.Features)

	for _, cs := range clients {
		c := cs.client
		if err := content.UpsertClient(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to seed client %q: %w", c.Email, err)
		}
		res.Clients++

		t := &model.Testimonial{ClientID: c.ID, Content: cs.testimonial, Rating: cs.rating, IsFeatured: true}
		if err := content.CreateTestimonial(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to seed testimonial for %q: %w", c.Email, err)
		}
		res.Testimonials++
	}
	logger.Info("seeded clients", "clients", res.Clients, "testimonials", res.Testimonials)

	cfg, err := seedConfig(ctx, sqldb.NewCatalogProvider(db), opts.Activate)
	if err != nil {
		return nil, err
	}
	res.Config = cfg
	logger.Info("seeded chatbot config", "name", cfg.Name, "active", cfg.IsActive)
	return res, nil
}

// seedConfig stores the built-in catalog once. An existing inactive copy is
// re-saved as active when activate is set.
func seedConfig(ctx context.Context, provider *sqldb.CatalogProvider, activate bool) (*model.ChatbotConfig, error) {
	def := catalog.Default()
	existing, err := provider.ConfigByName(ctx, def.Name)
	switch {
	case err == nil && (existing.IsActive || !activate):
		return existing, nil
	case err != nil && !errors.Is(err, sqldb.ErrNotFound):
		return nil, fmt.Errorf("failed to look up chatbot config: %w", err)
	}

	cfg, err := provider.SaveConfig(ctx, def, activate)
	if err != nil {
		return nil, fmt.Errorf("failed to save chatbot config: %w", err)
	}
	return cfg, nil
}
