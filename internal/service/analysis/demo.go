package analysis

import "quant_terminal/internal/model"

// demoResult - фиксированный ответ демо-режима, сеть не используется
func demoResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		VisualDiagnosis:  "3x3 slot simulation (Demo Mode). Detected elements: Seven, Star, Diamond. Virtual balance stable.",
		TechnicalReading: "Medium volatility. Simulated RTP 96.5%. Hit frequency 1:5.",
		SessionState:     "Controlled test environment. Progressive betting calibration in progress.",
		ActionPlan: model.ActionPlan{
			SpinBudget: "100 virtual spins",
			StopLoss:   "V$ 500.00",
			TakeProfit: "V$ 2000.00",
			ExitConditions: []string{
				"Reach the virtual loss limit",
				"Complete the 100-spin cycle for variance analysis",
			},
		},
		DirectInstruction: "CONTINUE TESTING IN DEMO MODE TO CALIBRATE STOP-LOSS BEFORE PLAYING IN A REAL MARKET.",
	}
}
