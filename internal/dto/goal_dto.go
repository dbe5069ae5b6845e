package dto

import "github.com/fnt-jany/day4/internal/models"

type CreateGoalRequest struct {
	Name        string   `json:"name"`
	TargetDate  string   `json:"targetDate"`
	TargetLevel *float64 `json:"targetLevel"`
	Unit        string   `json:"unit"`
}

// GoalResponse is the web UI shape: records ride along as "inputs",
// newest first.
type GoalResponse struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	TargetDate  string              `json:"targetDate"`
	TargetLevel float64             `json:"targetLevel"`
	Unit        string              `json:"unit"`
	Inputs      []models.GoalRecord `json:"inputs"`
}

type CreateRecordRequest struct {
	Date    string   `json:"date"`
	Level   *float64 `json:"level"`
	Message string   `json:"message"`
}

type IDResponse struct {
	ID int `json:"id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
