package slot

import (
	"context"
	"net/http"
	"time"

	"quant_terminal/internal/api"
	dto "quant_terminal/internal/api/dto/slot"
	"quant_terminal/internal/converter"
	"quant_terminal/internal/service"
	"quant_terminal/pkg/req"
	"quant_terminal/pkg/resp"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	eventBuffer    = 64
	wsWriteTimeout = 10 * time.Second
)

type HandlerDeps struct {
	Serv   service.SlotService
	Logger zerolog.Logger
}

type Handler struct {
	serv   service.SlotService
	logger zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, logger: deps.Logger}
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(h.serv.State()))
}

func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSymbolsResponse(h.serv.Symbols()))
}

// Spin блокирует запрос до завершения спина
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		api.WriteBadRequest(w, err)
		return
	}

	result, err := h.serv.Spin(r.Context(), payload.Bet)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

func (h *Handler) Bet(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.BetRequest](r.Body)
	if err != nil {
		api.WriteBadRequest(w, err)
		return
	}

	bet := h.serv.AdjustBet(payload.Steps)
	resp.WriteJSONResponse(w, http.StatusOK, dto.BetResponse{Bet: bet})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.Reset(); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(h.serv.State()))
}

func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToLedgerResponse(h.serv.Ledger()))
}

func (h *Handler) ClearLedger(w http.ResponseWriter, r *http.Request) {
	h.serv.ClearLedger()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.LedgerStats()))
}

// Analyze ставит анализ текущей демо-сессии, результат в GET /analysis
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.serv.RequestAnalysis(r.Context())
	resp.WriteJSONResponse(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Events - websocket поток событий спина
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	// клиент ничего не присылает, CloseRead отслеживает закрытие
	ctx := conn.CloseRead(r.Context())
	events, cancel := h.serv.Subscribe(eventBuffer)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(ctx, conn, converter.ToSpinEventMessage(ev)); err != nil {
				if websocket.CloseStatus(err) == -1 {
					h.logger.Debug().Err(err).Msg("event stream closed")
				}
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, msg dto.SpinEventMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}
