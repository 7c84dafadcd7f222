package bankroll

import (
	"net/http"

	"quant_terminal/internal/api"
	dto "quant_terminal/internal/api/dto/bankroll"
	"quant_terminal/internal/converter"
	"quant_terminal/internal/service"
	"quant_terminal/pkg/req"
	"quant_terminal/pkg/resp"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.BankrollService
}

type Handler struct {
	serv service.BankrollService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.serv.Summary(r.Context())
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSummaryResponse(*summary))
}

// Transactions - история операций, ?platform=<id> для одной площадки
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.serv.Transactions(r.Context(), r.URL.Query().Get("platform"))
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToTransactionsResponse(txs))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.TransactionRequest](r.Body)
	if err != nil {
		api.WriteBadRequest(w, err)
		return
	}

	tx, err := h.serv.RecordTransaction(r.Context(), converter.ToTransaction(payload))
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToTransactionResponse(*tx))
}

func (h *Handler) Bonus(w http.ResponseWriter, r *http.Request) {
	progress, err := h.serv.BonusProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBonusProgressResponse(*progress))
}

func (h *Handler) Wager(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.WagerRequest](r.Body)
	if err != nil {
		api.WriteBadRequest(w, err)
		return
	}

	progress, err := h.serv.RecordWager(r.Context(), chi.URLParam(r, "id"), payload.Amount)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBonusProgressResponse(*progress))
}
