package model

import "time"

type ActionPlan struct {
	SpinBudget     string   `json:"spinBudget"`
	StopLoss       string   `json:"stopLoss"`
	TakeProfit     string   `json:"takeProfit"`
	ExitConditions []string `json:"exitConditions"`
}

// AnalysisResult mirrors the JSON schema requested from the model.
type AnalysisResult struct {
	VisualDiagnosis   string     `json:"visualDiagnosis"`
	TechnicalReading  string     `json:"technicalReading"`
	SessionState      string     `json:"sessionState"`
	ActionPlan        ActionPlan `json:"actionPlan"`
	DirectInstruction string     `json:"directInstruction"`
}

// AnalysisPanel - состояние панели анализа
type AnalysisPanel struct {
	Analyzing bool
	Result    *AnalysisResult
	Error     string
	UpdatedAt time.Time
}
