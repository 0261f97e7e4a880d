package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/internal/runtime"
	"github.com/javanetict/jnsuite/pkg/adapters/memory"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	engine := runtime.NewEngine(catalog.BuiltIn{}, session.NewManager(memory.NewStore()))
	return NewServer(engine, WithLogger(logging.NewNop()))
}

func TestHandleChat_ContinuesSession(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	first, err := s.handleChat(ctx, mcp.CallToolRequest{}, chatArgs{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.TagGreeting, first.Intent)
	require.NotEmpty(t, first.SessionID)

	second, err := s.handleChat(ctx, mcp.CallToolRequest{}, chatArgs{SessionID: first.SessionID, Message: "demo"})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, domain.TagDemo, second.Intent)
	require.NotNil(t, second.Delta.DemoShown)
	assert.True(t, *second.Delta.DemoShown)
}

func TestHandleChat_RejectsInput(t *testing.T) {
	s := newTestServer()

	_, err := s.handleChat(context.Background(), mcp.CallToolRequest{}, chatArgs{Message: "\xff"})
	assert.Error(t, err)

	_, err = s.handleChat(context.Background(), mcp.CallToolRequest{}, chatArgs{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestHandleFee(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	fee, err := s.handleFee(ctx, mcp.CallToolRequest{}, feeArgs{Country: "Kenya", EstimatedStudents: 600})
	require.NoError(t, err)
	assert.Equal(t, "₦6,000,000", fee.Amount)

	live := false
	fee, err = s.handleFee(ctx, mcp.CallToolRequest{}, feeArgs{Country: "Canada", NeedsCBT: &live, NeedsLiveClasses: true})
	require.NoError(t, err)
	assert.Equal(t, "$12,000", fee.Amount)
	assert.Equal(t, "USD", fee.Currency)

	_, err = s.handleFee(ctx, mcp.CallToolRequest{}, feeArgs{})
	assert.Error(t, err)
}

func TestListIntentsAndCatalog(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleListIntents(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var tags []string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &tags))
	assert.Contains(t, tags, domain.TagGreeting)
	assert.Contains(t, tags, domain.TagGenerateProposal)

	contents, err := s.readCatalog(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	rc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, catalogURI, rc.URI)
	assert.Contains(t, rc.Text, `"greeting"`)
}
