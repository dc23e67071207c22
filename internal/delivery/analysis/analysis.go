package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goreview/internal/bootstrap"
	"goreview/internal/domain"
	"goreview/internal/domain/board"
	apperrors "goreview/internal/errors"
	"goreview/internal/httpresponse"
	analysisuc "goreview/internal/usecase/analysis"
)

// SessionStore хранит загруженные партии, чтобы сессию можно было
// восстановить после перезапуска сервера. Результаты анализа не хранит.
type SessionStore interface {
	SaveSGF(ctx context.Context, sessionID string, sgfText string, player string) error
	LoadSGF(ctx context.Context, sessionID string) (sgfText string, player string, err error)
}

type AnalysisHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	oracle analysisuc.Oracle
	store  SessionStore
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var activeSessions = make(map[string]*analysisuc.Session)
var activeSessionsMu sync.RWMutex

func NewAnalysisHandler(cfg bootstrap.Config, log *zap.SugaredLogger, oracle analysisuc.Oracle, store SessionStore) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:    cfg,
		log:    log,
		oracle: oracle,
		store:  store,
	}
}

type NewAnalysisRequest struct {
	SGF    string `json:"sgf"`
	Player string `json:"player"`
}

type NewAnalysisResponse struct {
	AnalysisID string `json:"analysisId"`
}

type SummaryRequest struct {
	AnalysisID string `json:"analysisId"`
}

type TurnAnalysisRequest struct {
	AnalysisID      string       `json:"analysisId"`
	Turn            int          `json:"turn"`
	Corner1         *board.Coord `json:"corner1,omitempty"`
	Corner2         *board.Coord `json:"corner2,omitempty"`
	InvertSelection bool         `json:"invertSelection"`
}

// HandleNewAnalysis принимает SGF и выбранного игрока, создаёт сессию
// и возвращает её id. Ничего не анализирует.
func (h *AnalysisHandler) HandleNewAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req NewAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Player == "" {
		req.Player = "B"
	}

	session, err := analysisuc.NewSession(&h.cfg, h.log, h.oracle, req.SGF, req.Player)
	if err != nil {
		h.log.Errorw("failed to create analysis session", "error", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	analysisID := uuid.New().String()
	if err := h.store.SaveSGF(r.Context(), analysisID, req.SGF, req.Player); err != nil {
		h.log.Errorw("failed to store sgf", "analysisId", analysisID, "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, "failed to store the game")
		return
	}

	activeSessionsMu.Lock()
	activeSessions[analysisID] = session
	activeSessionsMu.Unlock()

	h.log.Infof("new analysis session %s, %d moves", analysisID, len(session.Moves()))
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, NewAnalysisResponse{AnalysisID: analysisID})
}

// HandleGameSummary гоняет неглубокий анализ всей партии и возвращает
// сводку по каждому ходу вместе с серией scoreLead.
func (h *AnalysisHandler) HandleGameSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	session, err := h.getSession(r.Context(), req.AnalysisID)
	if err != nil {
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	if err := session.AnalyzeGame(r.Context()); err != nil {
		h.log.Errorw("game analysis failed", "analysisId", req.AnalysisID, "error", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	summary, err := session.Summary()
	if err != nil {
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, summary)
}

// HandleTurnAnalysis — глубокий анализ одного хода, опционально в пределах
// (или вне) прямоугольника, заданного двумя любыми углами.
func (h *AnalysisHandler) HandleTurnAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req TurnAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	session, err := h.getSession(r.Context(), req.AnalysisID)
	if err != nil {
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	var selection []string
	if req.Corner1 != nil && req.Corner2 != nil {
		selection, err = session.AreaSelection(*req.Corner1, *req.Corner2)
		if err != nil {
			httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
			return
		}
	}

	if err := session.AnalyzeTurnDeep(r.Context(), req.Turn, selection, req.InvertSelection); err != nil {
		h.log.Errorw("deep turn analysis failed", "analysisId", req.AnalysisID, "turn", req.Turn, "error", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	candidates, err := session.DeepCandidates(req.Turn, selection, req.InvertSelection)
	if err != nil {
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	result := domain.DeepTurnResult{
		Turn:            req.Turn,
		Selection:       selection,
		InvertSelection: req.InvertSelection,
		BestMoves:       candidates,
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

type watchMessage struct {
	Type          string              `json:"type"` // "turn", "done", "error"
	Turn          int                 `json:"turn,omitempty"`
	Data          *domain.TurnSummary `json:"data,omitempty"`
	ScoreLeadList []float64           `json:"scoreLeadList,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// HandleWatchAnalysis стримит сводки по ходам по мере выдачи движка.
// Порядок сообщений не гарантирован, клиент ориентируется по номеру хода.
func (h *AnalysisHandler) HandleWatchAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID := r.URL.Query().Get("analysisId")

	session, err := h.getSession(r.Context(), analysisID)
	if err != nil {
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	err = session.AnalyzeGameWithProgress(r.Context(), func(turn int, summary domain.TurnSummary) {
		msg := watchMessage{Type: "turn", Turn: turn, Data: &summary}
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Errorw("websocket write failed", "turn", turn, "error", err)
		}
	})
	if err != nil {
		h.log.Errorw("game analysis failed", "analysisId", analysisID, "error", err)
		_ = conn.WriteJSON(watchMessage{Type: "error", Error: err.Error()})
		return
	}

	leads, err := session.GameScoreLead()
	if err != nil {
		_ = conn.WriteJSON(watchMessage{Type: "error", Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(watchMessage{Type: "done", ScoreLeadList: leads})
}

// getSession достаёт живую сессию, а если её нет (рестарт сервера) —
// восстанавливает из сохранённого SGF. Результаты анализа при этом теряются.
func (h *AnalysisHandler) getSession(ctx context.Context, analysisID string) (*analysisuc.Session, error) {
	activeSessionsMu.RLock()
	session, ok := activeSessions[analysisID]
	activeSessionsMu.RUnlock()
	if ok {
		return session, nil
	}

	sgfText, player, err := h.store.LoadSGF(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	session, err = analysisuc.NewSession(&h.cfg, h.log, h.oracle, sgfText, player)
	if err != nil {
		return nil, err
	}

	activeSessionsMu.Lock()
	activeSessions[analysisID] = session
	activeSessionsMu.Unlock()
	return session, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrParse),
		errors.Is(err, apperrors.ErrConfiguration),
		errors.Is(err, apperrors.ErrGeometry),
		errors.Is(err, apperrors.ErrRange),
		errors.Is(err, apperrors.ErrNotAnalyzed):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrOracle):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
