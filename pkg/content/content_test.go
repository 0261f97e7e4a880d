package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/javanetict/jnsuite/internal/testutils"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newRepo(t *testing.T) *sqldb.ContentRepository {
	t.Helper()
	db := testutils.OpenDB(t)
	return sqldb.NewContentRepository(db)
}

func TestFeaturesByType(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	for _, f := range []model.Feature{
		{Name: "Live", FeatureType: model.FeatureLive, Order: 1},
		{Name: "Bank", FeatureType: model.FeatureCBT, Order: 2},
		{Name: "Grading", FeatureType: model.FeatureCBT, Order: 1},
	} {
		require.NoError(t, repo.UpsertFeature(ctx, &f))
	}
	svc := content.NewService(repo)

	cbt, err := svc.Features(ctx, model.FeatureCBT)
	require.NoError(t, err)
	require.Len(t, cbt, 2)
	assert.Equal(t, "Grading", cbt[0].Name)

	all, err := svc.Features(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTestimonials(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	c := &model.Client{Name: "Unity", Email: "unity@example.com", InstitutionName: "Unity College", Country: "Ghana"}
	require.NoError(t, repo.UpsertClient(ctx, c))
	for i := 0; i < 8; i++ {
		require.NoError(t, repo.CreateTestimonial(ctx, &model.Testimonial{
			ClientID:   c.ID,
			Content:    string(rune('a' + i)),
			Rating:     5,
			IsFeatured: i != 0,
		}))
	}
	svc := content.NewService(repo)

	all, err := svc.Testimonials(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, "Unity College", all[0].ClientName)
	assert.Equal(t, "Ghana", all[0].ClientCountry)

	recent, err := svc.Testimonials(ctx, content.RecentTestimonials)
	require.NoError(t, err)
	assert.Len(t, recent, content.RecentTestimonials)
}

func TestSubmitContact_NotifiesContactAddress(t *testing.T) {
	repo := newRepo(t)
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, "admin@javanetict.com", "New Contact Form Submission: Demo Request", mock.AnythingOfType("string")).
		Return(nil).Once()

	svc := content.NewService(repo, content.WithMailer(mailer, "admin@javanetict.com"))
	c, err := svc.SubmitContact(context.Background(), content.ContactRequest{
		Name:    "Ada",
		Email:   "ada@school.ng",
		Subject: "Demo Request",
		Message: "Please show us the CBT module.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	mailer.AssertExpectations(t)

	body := mailer.Calls[0].Arguments.String(3)
	assert.Contains(t, body, "Phone: Not provided")
	assert.Contains(t, body, "Please show us the CBT module.")
}

func TestSubmitContact_MailFailureIsNotFatal(t *testing.T) {
	repo := newRepo(t)
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := content.NewService(repo, content.WithMailer(mailer, "admin@javanetict.com"))
	c, err := svc.SubmitContact(context.Background(), content.ContactRequest{Name: "Ada", Email: "ada@school.ng", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, content.DefaultSubject, c.Subject)

	stored, err := svc.Contacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitContact_Validation(t *testing.T) {
	svc := content.NewService(newRepo(t))

	tests := []struct {
		name string
		req  content.ContactRequest
	}{
		{"missing name", content.ContactRequest{Email: "a@b.co", Message: "x"}},
		{"missing email", content.ContactRequest{Name: "A", Message: "x"}},
		{"bad email", content.ContactRequest{Name: "A", Email: "not-an-email", Message: "x"}},
		{"missing message", content.ContactRequest{Name: "A", Email: "a@b.co"}},
		{"unknown subject", content.ContactRequest{Name: "A", Email: "a@b.co", Message: "x", Subject: "Spam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitContact(context.Background(), tt.req)
			assert.ErrorIs(t, err, content.ErrInvalidContact)
		})
	}
}
