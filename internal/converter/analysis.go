package converter

import (
	dto "quant_terminal/internal/api/dto/analysis"
	"quant_terminal/internal/model"
)

func ToResultResponse(r model.AnalysisResult) dto.ResultResponse {
	return dto.ResultResponse{
		VisualDiagnosis:  r.VisualDiagnosis,
		TechnicalReading: r.TechnicalReading,
		SessionState:     r.SessionState,
		ActionPlan: dto.ActionPlan{
			SpinBudget:     r.ActionPlan.SpinBudget,
			StopLoss:       r.ActionPlan.StopLoss,
			TakeProfit:     r.ActionPlan.TakeProfit,
			ExitConditions: r.ActionPlan.ExitConditions,
		},
		DirectInstruction: r.DirectInstruction,
	}
}

func ToPanelResponse(p model.AnalysisPanel) dto.PanelResponse {
	res := dto.PanelResponse{
		Analyzing: p.Analyzing,
		Error:     p.Error,
	}
	if p.Result != nil {
		r := ToResultResponse(*p.Result)
		res.Result = &r
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		res.UpdatedAt = &t
	}
	return res
}
