package agent

import (
	"context"

	"github.com/fnt-jany/day4/internal/config"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "1.0.0"

const instructions = `Day4 goal tracker gateway. Call day4_set_api_key once with the
user's API key (from the Day4 settings page), then use the other tools to list
goals and add progress records on the user's behalf.`

// New builds the MCP server exposing the Day4 tools. Session state is the
// per-session API key; it is dropped when the client disconnects.
func New(cfg *config.Config) *server.MCPServer {
	keys := NewSessionKeys()
	client := NewClient(cfg.APIBase, cfg.APITimeout)

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		keys.Clear(session.SessionID())
	})

	s := server.NewMCPServer(
		"day4-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions(instructions),
	)

	setKey := NewSetAPIKeyTool(keys)
	clearKey := NewClearAPIKeyTool(keys)
	listGoals := NewListGoalsTool(keys, client)
	addRecord := NewAddRecordTool(keys, client)
	addBatch := NewAddRecordsBatchTool(keys, client)
	listRecords := NewListRecordsTool(keys, client)

	s.AddTool(setKey.Definition(), setKey.Handle)
	s.AddTool(clearKey.Definition(), clearKey.Handle)
	s.AddTool(listGoals.Definition(), listGoals.Handle)
	s.AddTool(addRecord.Definition(), addRecord.Handle)
	s.AddTool(addBatch.Definition(), addBatch.Handle)
	s.AddTool(listRecords.Definition(), listRecords.Handle)

	return s
}
