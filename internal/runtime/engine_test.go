package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javanetict/jnsuite/internal/runtime"
	"github.com/javanetict/jnsuite/pkg/adapters/memory"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...runtime.EngineOption) (*runtime.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return runtime.NewEngine(catalog.BuiltIn{}, session.NewManager(store), opts...), store
}

func node(t *testing.T, tag string) domain.Node {
	t.Helper()
	n, ok := catalog.Default().Lookup(tag)
	require.True(t, ok, "missing %s", tag)
	return n
}

func TestEngine_EmptyMessage(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.Turn(context.Background(), "s1", "   \n\t")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestEngine_GeneratesSessionID(t *testing.T) {
	eng, _ := newEngine(t, runtime.WithIDGenerator(func() string { return "generated" }))
	turn, err := eng.Turn(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "generated", turn.SessionID)
}

func TestEngine_Greeting(t *testing.T) {
	eng, _ := newEngine(t)
	turn, err := eng.Turn(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, domain.TagGreeting, turn.Intent)
	assert.Equal(t, node(t, domain.TagGreeting).Response(), turn.Response)
	assert.Equal(t, []string{"What modules are included?", "How much does it cost?", "Generate Proposal"}, turn.Suggestions)
	assert.Equal(t, 1, turn.State.MessageCount)
}

func TestEngine_DemoTwiceRedirectsToLeadCapture(t *testing.T) {
	eng, store := newEngine(t)
	ctx := context.Background()

	first, err := eng.Turn(ctx, "s1", "demo")
	require.NoError(t, err)
	assert.Equal(t, domain.TagDemo, first.Intent)
	assert.Equal(t, node(t, domain.TagDemo).Response(), first.Response)
	assert.Equal(t, []string{"Talk to sales team", "Generate Proposal"}, first.Suggestions)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, state.DemoShown)

	second, err := eng.Turn(ctx, "s1", "demo")
	require.NoError(t, err)
	assert.Equal(t, domain.TagLeadCapture, second.Intent)
	assert.Equal(t, node(t, domain.TagLeadCapture).Response(), second.Response)
	assert.True(t, second.State.ReadyForSales)
}

func TestEngine_UniversityFacultyCount(t *testing.T) {
	ctx := context.Background()

	t.Run("large", func(t *testing.T) {
		eng, _ := newEngine(t)
		turn, err := eng.Turn(ctx, "u1", "I am a university")
		require.NoError(t, err)
		require.Equal(t, domain.TagUniversityType, turn.Intent)

		turn, err = eng.Turn(ctx, "u1", "750")
		require.NoError(t, err)
		assert.Equal(t, domain.TagUserVolume, turn.Intent)
		assert.Equal(t, "750", turn.State.FacultyCount)
		assert.Equal(t, "750", turn.State.UserVolume)
		assert.True(t, strings.HasSuffix(turn.Response,
			"\n\nGreat! We specialize in large-scale university deployments with multi-faculty support."))
		assert.Equal(t, []string{"Show me demo links", "Generate Proposal", "Talk to sales team"}, turn.Suggestions)
	})

	t.Run("small", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.Turn(ctx, "u2", "I am a university")
		require.NoError(t, err)

		turn, err := eng.Turn(ctx, "u2", "7")
		require.NoError(t, err)
		assert.Equal(t, "7", turn.State.FacultyCount)
		assert.True(t, strings.HasSuffix(turn.Response,
			"\n\nExcellent! That's an ideal size for our platform's capabilities."))
	})
}

func TestEngine_GenericVolumeSentence(t *testing.T) {
	eng, _ := newEngine(t)
	turn, err := eng.Turn(context.Background(), "v1", "750")
	require.NoError(t, err)

	// "750" contains the user_volume pattern "5".
	assert.Equal(t, domain.TagUserVolume, turn.Intent)
	assert.Equal(t, []string{"Show me demo links", "Generate Proposal"}, turn.Suggestions)
	assert.True(t, strings.HasSuffix(turn.Response,
		"\n\nGreat! That's a typical size we work with. Our platform scales perfectly for your needs."))
	assert.Equal(t, "", turn.State.FacultyCount)
	assert.Equal(t, "750", turn.State.UserVolume)
}

func TestEngine_PatternInsideWord(t *testing.T) {
	eng, _ := newEngine(t)
	turn, err := eng.Turn(context.Background(), "i1", "help me install it")
	require.NoError(t, err)

	assert.Equal(t, domain.TagPriorityModule, turn.Intent)
	assert.Equal(t, node(t, domain.TagPriorityModule).Response(), turn.Response)
}

func TestEngine_OutOfScope(t *testing.T) {
	eng, store := newEngine(t)
	ctx := context.Background()

	_, err := eng.Turn(ctx, "o1", "how much does it cost")
	require.NoError(t, err)

	first, err := eng.Turn(ctx, "o1", "what's the weather today")
	require.NoError(t, err)
	second, err := eng.Turn(ctx, "o1", "what's the weather today")
	require.NoError(t, err)

	assert.Equal(t, domain.TagOutOfScope, first.Intent)
	assert.True(t, first.OutOfScope)
	assert.Equal(t, []string{
		"What is JavaNet edTech Suite?",
		"What modules are included?",
		"Generate proposal",
		"Show me demo links",
	}, first.Suggestions)
	assert.Contains(t, first.Response, "outside the scope")
	assert.True(t, first.Delta.IsEmpty())

	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, first.Suggestions, second.Suggestions)

	state, err := store.Load(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.TagPricing, state.LastIntent)
	assert.Equal(t, 1, state.MessageCount)
}

func TestEngine_OutOfScopeFirstMessageCreatesSession(t *testing.T) {
	eng, store := newEngine(t)
	ctx := context.Background()

	_, err := eng.Turn(ctx, "fresh", "what's the weather today")
	require.NoError(t, err)

	state, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionState{}, *state)
}

func TestEngine_PersonalizedProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("without volume", func(t *testing.T) {
		eng, _ := newEngine(t)
		turn, err := eng.Turn(ctx, "p1", "I am a school in Nigeria")
		require.NoError(t, err)
		require.Equal(t, domain.TagSchoolType, turn.Intent)
		assert.Equal(t, "school", turn.State.UserIndustry)
		assert.Equal(t, "Nigeria", turn.State.UserCountry)

		turn, err = eng.Turn(ctx, "p1", "I need a custom quote, please help")
		require.NoError(t, err)
		require.Equal(t, domain.TagGenerateProposal, turn.Intent)
		assert.True(t, turn.State.ProposalRequested)
		assert.Equal(t, node(t, domain.TagGenerateProposal).Response()+
			"\n\n🎯 **Based on our conversation:**\n"+
			"• Industry: School\n"+
			"• Location: Nigeria\n"+
			"\n💡 **Personalized Proposal Link:**\n"+
			"https://www.javanetict.com/proposal?industry=school&country=nigeria"+
			"\n\nThis link will pre-fill your information for faster proposal generation!",
			turn.Response)
	})

	t.Run("with volume", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.Turn(ctx, "p2", "I am a school in Nigeria")
		require.NoError(t, err)

		turn, err := eng.Turn(ctx, "p2", "custom quote for 300 users")
		require.NoError(t, err)
		require.Equal(t, domain.TagGenerateProposal, turn.Intent)
		assert.Contains(t, turn.Response, "• Estimated Users: 300\n")
		assert.Contains(t, turn.Response, "proposal?industry=school&country=nigeria&users=300")
	})

	t.Run("needs industry and country", func(t *testing.T) {
		eng, _ := newEngine(t)
		turn, err := eng.Turn(ctx, "p3", "I need a custom quote, please help")
		require.NoError(t, err)
		assert.Equal(t, node(t, domain.TagGenerateProposal).Response(), turn.Response)
	})
}

func TestEngine_SalesFlow(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	steps := []struct {
		say  string
		want string
	}{
		{"talk to sales team", domain.TagLeadCapture},
		{"can I call you tomorrow", domain.TagScheduleCall},
		{"whatsapp please", domain.TagWhatsAppContact},
		{"what is your email", domain.TagSendEmail},
		{"contact person?", domain.TagLeadCapture},
	}
	for _, s := range steps {
		turn, err := eng.Turn(ctx, "sales", s.say)
		require.NoError(t, err)
		assert.Equal(t, s.want, turn.Intent, s.say)
	}
}

func TestEngine_WalkthroughAfterDemo(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	_, err := eng.Turn(ctx, "w1", "show demo")
	require.NoError(t, err)

	turn, err := eng.Turn(ctx, "w1", "yes walkthrough with sales team")
	require.NoError(t, err)
	assert.Equal(t, domain.TagDemoYes, turn.Intent)
	assert.True(t, turn.State.ReadyForSales)
	assert.Equal(t, []string{"Schedule a call", "WhatsApp chat", "Send email"}, turn.Suggestions)
}

// Submitting any catalog pattern verbatim with empty state lands on the
// first node in catalog order that claims it, which is the node itself
// unless an earlier node has an overlapping pattern.
func TestEngine_EveryPatternMatches(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	index := make(map[string]int)
	for i, tag := range cat.Tags() {
		index[tag] = i
	}

	for _, n := range cat.Nodes() {
		for _, p := range n.Patterns {
			for _, variant := range []string{p, strings.ToUpper(p)} {
				eng, _ := newEngine(t)
				turn, err := eng.Turn(ctx, "prop", variant)
				require.NoError(t, err)

				if !runtime.IsRelevant(variant) {
					assert.Equal(t, domain.TagOutOfScope, turn.Intent, variant)
					continue
				}
				matched, ok := index[turn.Intent]
				require.True(t, ok, "%q matched unknown intent %s", variant, turn.Intent)
				assert.LessOrEqual(t, matched, index[n.Tag], "%q from %s matched later node %s", variant, n.Tag, turn.Intent)
			}
		}
	}
}

func TestEngine_UniquePatternsMatchTheirNode(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	cases := map[string]string{
		"What is JavaNet edTech Suite?": domain.TagAboutJavaNet,
		"Secondary school":              domain.TagSchoolType,
		"Training academy":              domain.TagTrainingType,
		"Higher institution":            domain.TagUniversityType,
		"Ministry of education":         domain.TagGovernmentType,
		"EdTech company":                domain.TagCompanyType,
		"What modules are included?":    domain.TagModules,
		"How much does it cost":         domain.TagPricing,
		"Ghana":                         domain.TagDeploymentCountry,
		"Phone sales":                   domain.TagScheduleCall,
		"info@javanetict.com":           domain.TagSendEmail,
		"Chat on WhatsApp":              domain.TagWhatsAppContact,
		"Computer based tests":          domain.TagCBTTests,
		"Virtual lectures":              domain.TagVirtualClassroom,
		"Good morning":                  domain.TagGreeting,
		"Goodbye":                       domain.TagGoodbye,
	}
	for say, want := range cases {
		turn, err := eng.Turn(ctx, "unique-"+say, say)
		require.NoError(t, err)
		assert.Equal(t, want, turn.Intent, say)
	}
}

func TestEngine_RecordsHistory(t *testing.T) {
	history := memory.NewHistory()
	eng, _ := newEngine(t, runtime.WithHistory(history))
	ctx := context.Background()

	_, err := eng.Turn(ctx, "h1", "hello")
	require.NoError(t, err)
	_, err = eng.Turn(ctx, "h1", "what's the weather today")
	require.NoError(t, err)

	msgs, err := history.History(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, domain.RoleBot, msgs[1].Role)
	assert.Equal(t, domain.TagGreeting, msgs[1].Intent)
	assert.Equal(t, domain.TagOutOfScope, msgs[3].Intent)
}

type failingCatalog struct{}

func (failingCatalog) Catalog(context.Context) (*domain.Catalog, error) {
	return nil, errors.New("config table locked")
}

type failingSessions struct{}

func (failingSessions) LoadOrCreate(context.Context, string) (domain.StateLookup, error) {
	return domain.StateLookup{}, errors.New("redis down")
}

func (failingSessions) Merge(context.Context, string, domain.StateDelta) (*domain.SessionState, error) {
	return nil, errors.New("redis down")
}

func TestEngine_DegradesOnFaults(t *testing.T) {
	var faults []string
	hooks := domain.LifecycleHooks{
		OnFault: func(_ context.Context, e *domain.FaultEvent) {
			faults = append(faults, e.Component)
		},
	}
	eng := runtime.NewEngine(failingCatalog{}, failingSessions{}, runtime.WithHooks(hooks))

	turn, err := eng.Turn(context.Background(), "f1", "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.TagGreeting, turn.Intent)
	assert.Equal(t, 1, turn.State.MessageCount)
	assert.Equal(t, []string{"state_store", "catalog", "state_store"}, faults)
}

func TestEngine_UnknownWithoutGreeting(t *testing.T) {
	loader, err := memory.NewFromNodes(domain.Node{Tag: "pricing", Patterns: []string{"Price"}, Responses: []string{"It depends"}})
	require.NoError(t, err)
	store := memory.NewStore()
	eng := runtime.NewEngine(loader, session.NewManager(store))
	ctx := context.Background()

	turn, err := eng.Turn(ctx, "u1", "hello there")
	require.NoError(t, err)
	assert.Equal(t, domain.TagUnknown, turn.Intent)
	assert.Contains(t, turn.Response, "I'm here to help you with JavaNet edTech Suite!")
	assert.Len(t, turn.Suggestions, 4)

	state, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "", state.LastIntent)
}

func TestEngine_Hooks(t *testing.T) {
	var turns, rejected int
	hooks := domain.LifecycleHooks{
		OnTurn:       func(context.Context, *domain.TurnEvent) { turns++ },
		OnOutOfScope: func(context.Context, *domain.TurnEvent) { rejected++ },
	}
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	eng, _ := newEngine(t, runtime.WithHooks(hooks), runtime.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	turn, err := eng.Turn(ctx, "k1", "how much does it cost")
	require.NoError(t, err)
	assert.Equal(t, now, turn.State.LastInteraction)

	_, _ = eng.Turn(ctx, "k1", "what's the weather today")
	assert.Equal(t, 1, turns)
	assert.Equal(t, 1, rejected)
}
