package converter

import (
	dto "quant_terminal/internal/api/dto/bankroll"
	"quant_terminal/internal/model"
)

func ToSummaryResponse(s model.BankrollSummary) dto.SummaryResponse {
	platforms := make([]dto.PlatformResponse, len(s.Platforms))
	for i, p := range s.Platforms {
		platforms[i] = dto.PlatformResponse{
			ID:       p.ID,
			Name:     p.Name,
			Balance:  p.Balance,
			Currency: p.Currency,
		}
	}
	return dto.SummaryResponse{Platforms: platforms, Total: s.Total}
}

func ToTransaction(req dto.TransactionRequest) model.Transaction {
	tx := model.Transaction{
		PlatformID: req.PlatformID,
		Type:       model.TransactionType(req.Type),
		GameType:   model.GameType(req.GameType),
		Amount:     req.Amount,
		Note:       req.Note,
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}
	return tx
}

func ToTransactionResponse(tx model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:         tx.ID,
		PlatformID: tx.PlatformID,
		Type:       string(tx.Type),
		GameType:   string(tx.GameType),
		Amount:     tx.Amount,
		Date:       tx.Date,
		Note:       tx.Note,
	}
}

func ToTransactionsResponse(txs []model.Transaction) dto.TransactionsResponse {
	result := make([]dto.TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = ToTransactionResponse(tx)
	}
	return dto.TransactionsResponse{Transactions: result}
}

func ToBonusProgressResponse(p model.BonusProgress) dto.BonusProgressResponse {
	resp := dto.BonusProgressResponse{
		ID:               p.Bonus.ID,
		PlatformID:       p.Bonus.PlatformID,
		Amount:           p.Bonus.Amount,
		Multiplier:       p.Bonus.Multiplier,
		WageringRequired: p.Bonus.WageringRequired,
		WageringDone:     p.Bonus.WageringDone,
		Remaining:        p.Remaining,
		Progress:         p.Progress,
		IsActive:         p.Bonus.IsActive,
		Expired:          p.Expired,
	}
	if !p.Bonus.ExpiryDate.IsZero() {
		expiry := p.Bonus.ExpiryDate
		resp.ExpiryDate = &expiry
	}
	return resp
}
