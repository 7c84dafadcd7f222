package analysis

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"quant_terminal/internal/api"
	"quant_terminal/internal/converter"
	"quant_terminal/internal/service"
	"quant_terminal/pkg/resp"
)

// Максимальный размер снимка экрана
const maxImageBytes = 10 << 20

var errNoImage = errors.New("image is required")

type HandlerDeps struct {
	Serv service.AnalysisService
}

type Handler struct {
	serv service.AnalysisService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Screenshot принимает multipart поле "file" или сырое тело с изображением
func (h *Handler) Screenshot(w http.ResponseWriter, r *http.Request) {
	image, mimeType, err := readImage(w, r)
	if err != nil {
		api.WriteBadRequest(w, err)
		return
	}

	result, err := h.serv.AnalyzeScreenshot(r.Context(), image, mimeType)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToResultResponse(*result))
}

func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPanelResponse(h.serv.Panel()))
}

func readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("read form file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, detectType(header.Header.Get("Content-Type"), data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errNoImage
	}
	return data, detectType(mediaType, data), nil
}

// detectType берет заявленный тип изображения, иначе определяет по содержимому
func detectType(declared string, data []byte) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	detected, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return detected
}
