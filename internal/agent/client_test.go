package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsBearerKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]dto.ChatbotGoalResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.ListGoals(context.Background(), "day4_ck_secret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer day4_ck_secret", gotAuth)
}

func TestClientDecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/records", r.URL.Path)

		var req dto.RecordWriteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Running", req.GoalName)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.RecordCreatedResponse{
			GoalID: 3, GoalName: "Running", RecordID: 17,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	level := 5.2
	created, err := client.CreateRecord(context.Background(), "day4_ck_secret", &dto.RecordWriteRequest{
		GoalName: "Running", Date: "2026-08-28", Level: &level,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.GoalID)
	assert.Equal(t, "Running", created.GoalName)
	assert.Equal(t, 17, created.RecordID)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "goal name is ambiguous, use goalId"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	level := 1.0
	_, err := client.CreateRecord(context.Background(), "day4_ck_secret", &dto.RecordWriteRequest{
		GoalName: "Reading", Date: "2026-08-28", Level: &level,
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "goal name is ambiguous, use goalId", apiErr.Message)
}

func TestClientHandlesUnparsableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.ListGoals(context.Background(), "day4_ck_secret")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClientListRecordsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("goalId"))
		assert.Equal(t, "Running", r.URL.Query().Get("goalName"))
		json.NewEncoder(w).Encode(dto.RecordListResponse{GoalID: 7, GoalName: "Running"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	resp, err := client.ListRecords(context.Background(), "day4_ck_secret", 7, "Running")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.GoalID)
}
