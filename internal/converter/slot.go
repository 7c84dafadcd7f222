package converter

import (
	dto "quant_terminal/internal/api/dto/slot"
	"quant_terminal/internal/model"
)

func ToSpinResponse(o model.SpinOutcome) dto.SpinResponse {
	return dto.SpinResponse{
		EntryID: o.EntryID,
		Bet:     o.Bet,
		Grid:    o.Grid.IDs(),
		Payout:  o.Payout,
		Balance: o.Balance,
	}
}

func ToStateResponse(s model.SessionState) dto.StateResponse {
	res := dto.StateResponse{
		Balance:  s.Balance,
		Bet:      s.Bet,
		LastWin:  s.LastWin,
		Spinning: s.Spinning,
		Grid:     s.Grid.IDs(),
	}
	if !s.SpinStartedAt.IsZero() {
		t := s.SpinStartedAt
		res.SpinStartedAt = &t
	}
	return res
}

func ToLedgerResponse(entries []model.LedgerEntry) dto.LedgerResponse {
	result := make([]dto.LedgerEntry, len(entries))
	for i, e := range entries {
		result[i] = dto.LedgerEntry{
			ID:        e.ID,
			Bet:       e.Bet,
			Win:       e.Win,
			Balance:   e.Balance,
			Timestamp: e.Timestamp,
		}
	}
	return dto.LedgerResponse{Entries: result}
}

func ToStatsResponse(s model.LedgerStats) dto.StatsResponse {
	return dto.StatsResponse{
		Spins:        s.Spins,
		Wins:         s.Wins,
		TotalBet:     s.TotalBet,
		TotalWin:     s.TotalWin,
		RTP:          s.RTP,
		HitFrequency: s.HitFrequency,
	}
}

func ToSymbolsResponse(symbols []model.Symbol) dto.SymbolsResponse {
	result := make([]dto.Symbol, len(symbols))
	for i, s := range symbols {
		result[i] = dto.Symbol{ID: s.ID, Value: s.Value, Icon: s.Icon, Color: s.Color}
	}
	return dto.SymbolsResponse{Symbols: result}
}

func ToSpinEventMessage(ev model.SpinEvent) dto.SpinEventMessage {
	return dto.SpinEventMessage{
		Kind:    string(ev.Kind),
		Grid:    ev.Grid.IDs(),
		Bet:     ev.Bet,
		Payout:  ev.Payout,
		Balance: ev.Balance,
		At:      ev.At,
	}
}
