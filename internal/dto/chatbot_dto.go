package dto

import "github.com/fnt-jany/day4/internal/models"

// RecordWriteRequest is the chatbot-side write payload. The goal reference
// is either a numeric id or a free-text name; id wins when both are set.
type RecordWriteRequest struct {
	GoalID   int      `json:"goalId,omitempty"`
	GoalName string   `json:"goalName,omitempty"`
	Date     string   `json:"date"`
	Level    *float64 `json:"level"`
	Message  string   `json:"message,omitempty"`
}

type ChatbotGoalResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	TargetDate  string  `json:"targetDate"`
	TargetLevel float64 `json:"targetLevel"`
	Unit        string  `json:"unit"`
	RecordCount int     `json:"recordCount"`
}

// RecordCreatedResponse echoes the resolved goal's name so name-based
// callers can confirm which goal was written to.
type RecordCreatedResponse struct {
	GoalID   int    `json:"goalId"`
	GoalName string `json:"goalName"`
	RecordID int    `json:"recordId"`
}

type RecordMutationResponse struct {
	OK       bool   `json:"ok"`
	RecordID int    `json:"recordId"`
	GoalID   int    `json:"goalId"`
	GoalName string `json:"goalName"`
}

type RecordListResponse struct {
	GoalID   int                 `json:"goalId"`
	GoalName string              `json:"goalName"`
	Count    int                 `json:"count"`
	Records  []models.GoalRecord `json:"records"`
}

type BatchRequest struct {
	Records []RecordWriteRequest `json:"records"`
}

type BatchItemSuccess struct {
	Index    int    `json:"index"`
	GoalID   int    `json:"goalId"`
	GoalName string `json:"goalName"`
	RecordID int    `json:"recordId"`
}

type BatchItemFailure struct {
	Index   int    `json:"index"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type BatchResponse struct {
	OK          bool               `json:"ok"`
	Total       int                `json:"total"`
	Inserted    int                `json:"inserted"`
	FailedCount int                `json:"failedCount"`
	Success     []BatchItemSuccess `json:"success"`
	Failed      []BatchItemFailure `json:"failed"`
}

type KeyStatusResponse struct {
	HasKey    bool   `json:"hasKey"`
	KeyPrefix string `json:"keyPrefix,omitempty"`
	IssuedAt  string `json:"issuedAt,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
}

type IssueKeyResponse struct {
	APIKey    string `json:"apiKey"`
	KeyPrefix string `json:"keyPrefix"`
	IssuedAt  string `json:"issuedAt"`
	Warning   string `json:"warning"`
}
