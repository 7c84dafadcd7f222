package analysis

import "time"

type ActionPlan struct {
	SpinBudget     string   `json:"spin_budget"`
	StopLoss       string   `json:"stop_loss"`
	TakeProfit     string   `json:"take_profit"`
	ExitConditions []string `json:"exit_conditions"`
}

type ResultResponse struct {
	VisualDiagnosis   string     `json:"visual_diagnosis"`
	TechnicalReading  string     `json:"technical_reading"`
	SessionState      string     `json:"session_state"`
	ActionPlan        ActionPlan `json:"action_plan"`
	DirectInstruction string     `json:"direct_instruction"`
}

type PanelResponse struct {
	Analyzing bool            `json:"analyzing"`
	Result    *ResultResponse `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
