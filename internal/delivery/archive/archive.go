package archive

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"goreview/internal/bootstrap"
	"goreview/internal/domain"
	apperrors "goreview/internal/errors"
	"goreview/internal/httpresponse"
	archiveuc "goreview/internal/usecase/archive"
)

type ArchiveHandler struct {
	cfg bootstrap.Config
	log *zap.SugaredLogger
	uc  *archiveuc.ArchiveUseCase
}

func NewArchiveHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc *archiveuc.ArchiveUseCase) *ArchiveHandler {
	return &ArchiveHandler{
		cfg: cfg,
		log: log,
		uc:  uc,
	}
}

type SaveGameResponse struct {
	ID string `json:"id"`
}

type GetGameRequest struct {
	ID string `json:"id"`
}

func (h *ArchiveHandler) HandleSaveGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var game domain.ArchivedGame
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	id, err := h.uc.SaveGame(r.Context(), game)
	if err != nil {
		if errors.Is(err, apperrors.ErrParse) {
			httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Errorw("failed to save game to archive", "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, "failed to save the game")
		return
	}

	h.log.Infof("game %s saved to archive", id)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, SaveGameResponse{ID: id})
}

// HandleListGames отдаёт архив постранично, ?year= фильтрует по году.
func (h *ArchiveHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	resp, err := h.uc.GetGames(r.Context(), year, page)
	if err != nil {
		h.log.Errorw("failed to list archive", "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, "failed to read the archive")
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (h *ArchiveHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req GetGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	game, err := h.uc.GetGameById(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			httpresponse.WriteErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Errorw("failed to get archived game", "id", req.ID, "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, "failed to read the archive")
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game)
}
