package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const noKeyMessage = "no API key configured for this session, call day4_set_api_key first"

// sessionID identifies the MCP session behind a tool call. Stdio serves a
// single session; the streamable HTTP transport serves many.
func sessionID(ctx context.Context) string {
	if session := server.ClientSessionFromContext(ctx); session != nil {
		return session.SessionID()
	}
	return "stdio"
}

// resolveKey picks the credential for a data tool call: an explicit apiKey
// argument wins, otherwise the session's cached key. The second return is a
// ready-made result when no usable key exists.
func resolveKey(ctx context.Context, req mcp.CallToolRequest, keys *SessionKeys) (string, *mcp.CallToolResult) {
	if explicit := strings.TrimSpace(req.GetString("apiKey", "")); explicit != "" {
		if !strings.HasPrefix(explicit, services.APIKeyPrefix) {
			return "", mcp.NewToolResultError("apiKey does not look like a Day4 key (expected prefix " + services.APIKeyPrefix + ")")
		}
		return explicit, nil
	}

	key, ok := keys.Get(sessionID(ctx))
	if !ok {
		data, _ := json.Marshal(map[string]interface{}{"ok": false, "message": noKeyMessage})
		return "", mcp.NewToolResultText(string(data))
	}
	return key, nil
}

func withAPIKeyOverride() mcp.ToolOption {
	return mcp.WithString("apiKey",
		mcp.Description("Optional: use this key for this call instead of the session's configured key"),
	)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errResult renders backend rejections and transport failures as ok:false
// payloads. A failing call is still a successful tool invocation; the model
// should read the message and adjust, not see a protocol error.
func errResult(err error) (*mcp.CallToolResult, error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		data, _ := json.Marshal(map[string]interface{}{
			"ok":      false,
			"status":  apiErr.Status,
			"message": apiErr.Message,
		})
		return mcp.NewToolResultText(string(data)), nil
	}
	data, _ := json.Marshal(map[string]interface{}{
		"ok":      false,
		"message": err.Error(),
	})
	return mcp.NewToolResultText(string(data)), nil
}

// SetAPIKeyTool stores the user's scoped API key for the current session.
type SetAPIKeyTool struct {
	keys *SessionKeys
}

func NewSetAPIKeyTool(keys *SessionKeys) *SetAPIKeyTool {
	return &SetAPIKeyTool{keys: keys}
}

func (t *SetAPIKeyTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_set_api_key",
		mcp.WithDescription("Configure the Day4 API key used by all other day4 tools in this session. Get a key from the Day4 settings page."),
		mcp.WithString("apiKey",
			mcp.Required(),
			mcp.Description("The scoped API key, starts with day4_ck_"),
		),
	)
}

func (t *SetAPIKeyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey := strings.TrimSpace(req.GetString("apiKey", ""))
	if apiKey == "" {
		return mcp.NewToolResultError("apiKey is required"), nil
	}
	// Reject obviously wrong keys before they ever hit the network.
	if !strings.HasPrefix(apiKey, services.APIKeyPrefix) {
		return mcp.NewToolResultError("apiKey does not look like a Day4 key (expected prefix " + services.APIKeyPrefix + ")"), nil
	}

	t.keys.Set(sessionID(ctx), apiKey)
	return jsonResult(map[string]interface{}{"ok": true, "message": "API key configured for this session"})
}

// ClearAPIKeyTool drops the session's stored API key.
type ClearAPIKeyTool struct {
	keys *SessionKeys
}

func NewClearAPIKeyTool(keys *SessionKeys) *ClearAPIKeyTool {
	return &ClearAPIKeyTool{keys: keys}
}

func (t *ClearAPIKeyTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_clear_api_key",
		mcp.WithDescription("Forget the Day4 API key stored for this session."),
	)
}

func (t *ClearAPIKeyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.keys.Clear(sessionID(ctx))
	return jsonResult(map[string]interface{}{"ok": true, "message": "API key cleared"})
}

// ListGoalsTool lists the key owner's goals with their record counts.
type ListGoalsTool struct {
	keys   *SessionKeys
	client *Client
}

func NewListGoalsTool(keys *SessionKeys, client *Client) *ListGoalsTool {
	return &ListGoalsTool{keys: keys, client: client}
}

func (t *ListGoalsTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_list_goals",
		mcp.WithDescription("List the user's Day4 goals: id, name, target date, target level, unit and how many records each goal already has."),
		withAPIKeyOverride(),
	)
}

func (t *ListGoalsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, failed := resolveKey(ctx, req, t.keys)
	if failed != nil {
		return failed, nil
	}

	goals, err := t.client.ListGoals(ctx, apiKey)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]interface{}{"ok": true, "goals": goals})
}

// AddRecordTool writes a single progress record to a goal.
type AddRecordTool struct {
	keys   *SessionKeys
	client *Client
}

func NewAddRecordTool(keys *SessionKeys, client *Client) *AddRecordTool {
	return &AddRecordTool{keys: keys, client: client}
}

func (t *AddRecordTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_add_record",
		mcp.WithDescription("Add a progress record to one of the user's Day4 goals. Identify the goal by goalId (preferred) or by its exact goalName."),
		mcp.WithNumber("goalId",
			mcp.Description("Numeric goal id. Takes precedence over goalName when both are given."),
		),
		mcp.WithString("goalName",
			mcp.Description("Exact goal name, used when goalId is not known. Fails if two goals share the name."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Record date in YYYY-MM-DD format"),
		),
		mcp.WithNumber("level",
			mcp.Required(),
			mcp.Description("Measured level for that date, in the goal's unit"),
		),
		mcp.WithString("message",
			mcp.Description("Optional free-text note attached to the record"),
		),
		withAPIKeyOverride(),
	)
}

func (t *AddRecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, failed := resolveKey(ctx, req, t.keys)
	if failed != nil {
		return failed, nil
	}

	level := req.GetFloat("level", 0)
	write := &dto.RecordWriteRequest{
		GoalID:   int(req.GetFloat("goalId", 0)),
		GoalName: req.GetString("goalName", ""),
		Date:     req.GetString("date", ""),
		Level:    &level,
		Message:  req.GetString("message", ""),
	}

	created, err := t.client.CreateRecord(ctx, apiKey, write)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]interface{}{
		"ok":       true,
		"goalId":   created.GoalID,
		"goalName": created.GoalName,
		"recordId": created.RecordID,
	})
}

// AddRecordsBatchTool writes up to 50 records in one call and reports
// per-item outcomes.
type AddRecordsBatchTool struct {
	keys   *SessionKeys
	client *Client
}

func NewAddRecordsBatchTool(keys *SessionKeys, client *Client) *AddRecordsBatchTool {
	return &AddRecordsBatchTool{keys: keys, client: client}
}

func (t *AddRecordsBatchTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_add_records_batch",
		mcp.WithDescription("Add between 1 and 50 progress records in one call. Each item names its goal by goalId or goalName. Items are applied independently: the result lists which succeeded and which failed, by index."),
		mcp.WithString("records",
			mcp.Required(),
			mcp.Description(`JSON array of record objects, e.g. [{"goalName":"Running","date":"2026-08-28","level":5.2,"message":"morning run"}]`),
		),
		withAPIKeyOverride(),
	)
}

func (t *AddRecordsBatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, failed := resolveKey(ctx, req, t.keys)
	if failed != nil {
		return failed, nil
	}

	raw := req.GetString("records", "")
	var records []dto.RecordWriteRequest
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return mcp.NewToolResultError("records must be a JSON array of record objects: " + err.Error()), nil
	}

	resp, err := t.client.CreateBatch(ctx, apiKey, records)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(resp)
}

// ListRecordsTool reads back the records of a single goal.
type ListRecordsTool struct {
	keys   *SessionKeys
	client *Client
}

func NewListRecordsTool(keys *SessionKeys, client *Client) *ListRecordsTool {
	return &ListRecordsTool{keys: keys, client: client}
}

func (t *ListRecordsTool) Definition() mcp.Tool {
	return mcp.NewTool("day4_list_records",
		mcp.WithDescription("List the records of one Day4 goal, newest first. Identify the goal by goalId (preferred) or exact goalName."),
		mcp.WithNumber("goalId",
			mcp.Description("Numeric goal id"),
		),
		mcp.WithString("goalName",
			mcp.Description("Exact goal name"),
		),
		withAPIKeyOverride(),
	)
}

func (t *ListRecordsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, failed := resolveKey(ctx, req, t.keys)
	if failed != nil {
		return failed, nil
	}

	resp, err := t.client.ListRecords(ctx, apiKey,
		int(req.GetFloat("goalId", 0)), req.GetString("goalName", ""))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]interface{}{
		"ok":       true,
		"goalId":   resp.GoalID,
		"goalName": resp.GoalName,
		"count":    resp.Count,
		"records":  resp.Records,
	})
}
