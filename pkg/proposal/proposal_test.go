package proposal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/javanetict/jnsuite/internal/testutils"
	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/pricing"
	"github.com/javanetict/jnsuite/pkg/proposal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *proposal.Service {
	t.Helper()
	db := testutils.OpenDB(t)
	return proposal.NewService(sqldb.NewProposalRepository(db))
}

func validRequest() proposal.Request {
	return proposal.Request{
		Name:        "Ada Obi",
		Email:       "ada@school.ng",
		Institution: "Unity College",
		Country:     "Nigeria",
	}
}

func TestGenerate_RequiredFields(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		field string
		clear func(*proposal.Request)
	}{
		{"name", func(r *proposal.Request) { r.Name = "" }},
		{"email", func(r *proposal.Request) { r.Email = "  " }},
		{"institution", func(r *proposal.Request) { r.Institution = "" }},
		{"country", func(r *proposal.Request) { r.Country = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			req := validRequest()
			tt.clear(&req)

			_, err := svc.Generate(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, proposal.ErrMissingField)
			assert.EqualError(t, err, tt.field+" is required")

			var fe *proposal.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestGenerate_DefaultsAndPersistence(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Generate(ctx, validRequest())
	require.NoError(t, err)

	p := res.Proposal
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.NeedsCBT)
	assert.False(t, p.NeedsLiveClasses)
	assert.Equal(t, proposal.DefaultStudents, p.EstimatedStudents)
	assert.Equal(t, proposal.DefaultTeachers, p.EstimatedTeachers)
	assert.Equal(t, model.ProposalGenerated, p.Status)
	assert.Equal(t, pricing.NGN, p.Currency)
	assert.Equal(t, "₦5,000,000", p.DeploymentFee)
	assert.Equal(t, res.Fee.Amount, p.DeploymentFee)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unity College", stored.Institution)
	assert.Equal(t, model.ProposalGenerated, stored.Status)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGenerate_ExplicitValues(t *testing.T) {
	svc := newService(t)

	no := false
	students := 0
	req := validRequest()
	req.Country = "Canada"
	req.NeedsCBT = &no
	req.NeedsLiveClasses = true
	req.EstimatedStudents = &students

	res, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Proposal.NeedsCBT)
	assert.Equal(t, 0, res.Proposal.EstimatedStudents)
	assert.Equal(t, "$12,000", res.Fee.Amount)
	assert.Equal(t, pricing.USD, res.Proposal.Currency)
}

func TestGet_Missing(t *testing.T) {
	_, err := newService(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, sqldb.ErrNotFound)
}

func TestRenderPDF(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	d := proposal.Data{
		ProposalID:        "abc",
		Name:              "Ada Obi",
		Email:             "ada@school.ng",
		Institution:       "Unity College",
		Country:           "Nigeria",
		NeedsCBT:          true,
		NeedsLiveClasses:  true,
		EstimatedStudents: 600,
		EstimatedTeachers: 30,
		DeploymentFee:     "₦8,000,000",
	}

	var buf bytes.Buffer
	require.NoError(t, proposal.RenderPDF(&buf, d, now))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderPDF_Temporary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, proposal.RenderPDF(&buf, proposal.Data{Institution: "X"}, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestDataFor(t *testing.T) {
	d := proposal.DataFor(&model.ProposalRequest{ID: "p1", Institution: "Unity", DeploymentFee: "$10,000", NeedsCBT: true})
	assert.Equal(t, "p1", d.ProposalID)
	assert.Equal(t, proposal.Amount("$10,000"), d.DeploymentFee)
	assert.True(t, d.NeedsCBT)
}

func TestAmount_AcceptsStringOrObject(t *testing.T) {
	var d proposal.Data
	require.NoError(t, json.Unmarshal([]byte(`{"deployment_fee":"$10,000"}`), &d))
	assert.Equal(t, proposal.Amount("$10,000"), d.DeploymentFee)

	require.NoError(t, json.Unmarshal([]byte(`{"deployment_fee":{"amount":"₦5,000,000","currency":"NGN"}}`), &d))
	assert.Equal(t, proposal.Amount("₦5,000,000"), d.DeploymentFee)

	assert.Error(t, json.Unmarshal([]byte(`{"deployment_fee":12}`), &d))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Proposal_abc_Unity_College.pdf", proposal.Filename("abc", "Unity College"))
	assert.Equal(t, "Proposal_temp_Unity.pdf", proposal.Filename("", "Unity"))
}

func TestTempID(t *testing.T) {
	assert.Equal(t, "TEMP_20250304_100509", proposal.TempID(time.Date(2025, 3, 4, 10, 5, 9, 0, time.UTC)))
}
