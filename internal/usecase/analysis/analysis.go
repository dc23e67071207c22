package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goreview/internal/bootstrap"
	"goreview/internal/domain"
	"goreview/internal/domain/board"
	"goreview/internal/domain/sgf"
	apperrors "goreview/internal/errors"
)

// Oracle — внешний анализирующий движок. Вызов блокирующий: либо результат,
// либо ошибка, частичных данных не бывает.
type Oracle interface {
	AnalyzeGame(ctx context.Context, req domain.AnalysisRequest, onResult func(domain.AnalysisResponse)) ([]domain.AnalysisResponse, error)
	AnalyzeTurn(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

// Глубина, до которой действует ограничение allowMoves/avoidMoves.
const lookaheadWindow = 10

// Session — разбор одной партии. Держит дерево записи, гоняет движок
// и хранит результаты. Все числа наружу отдаются с точки зрения
// выбранного игрока: для белых winrate -> 1-winrate, scoreLead -> -scoreLead.
type Session struct {
	cfg    *bootstrap.Config
	log    *zap.SugaredLogger
	oracle Oracle

	tree       *sgf.Tree
	geom       board.Board
	player     string
	moves      [][2]string
	stones     [][2]string
	classifier *Classifier

	mu           sync.RWMutex
	gameAnalysis []domain.AnalysisResponse       // результат прохода по всей партии, отсортирован по ходам
	turnAnalysis map[int]domain.AnalysisResponse // глубокий анализ отдельных ходов
}

// NewSession разбирает SGF и готовит сессию. picks выбирают вариант
// на каждой развилке дерева, без них берётся главная линия.
func NewSession(cfg *bootstrap.Config, log *zap.SugaredLogger, oracle Oracle, sgfText string, player string, picks ...int) (*Session, error) {
	if player != "B" && player != "W" {
		return nil, fmt.Errorf("%w: player must be 'B' or 'W', got %q", apperrors.ErrConfiguration, player)
	}

	tree, err := sgf.Parse(sgfText)
	if err != nil {
		return nil, err
	}

	moves, err := tree.MoveSequence(picks...)
	if err != nil {
		return nil, err
	}

	stones, err := tree.InitialStones()
	if err != nil {
		return nil, err
	}

	xSize, ySize := tree.Size()
	geom, err := board.New(xSize, ySize)
	if err != nil {
		return nil, err
	}

	thresholds, err := cfg.Thresholds()
	if err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(thresholds)
	if err != nil {
		return nil, err
	}

	return &Session{
		cfg:          cfg,
		log:          log,
		oracle:       oracle,
		tree:         tree,
		geom:         geom,
		player:       player,
		moves:        moves,
		stones:       stones,
		classifier:   classifier,
		turnAnalysis: make(map[int]domain.AnalysisResponse),
	}, nil
}

func (s *Session) Player() string { return s.player }

func (s *Session) Moves() [][2]string { return s.moves }

// AreaSelection считает прямоугольник на доске этой партии.
func (s *Session) AreaSelection(c1, c2 board.Coord) ([]string, error) {
	return s.geom.AreaSelection(c1, c2)
}

func (s *Session) buildRequest(turns []int) domain.AnalysisRequest {
	xSize, ySize := s.tree.Size()
	return domain.AnalysisRequest{
		ID:            uuid.New().String(),
		Moves:         s.moves,
		Rules:         s.tree.Rules(),
		Komi:          s.tree.Komi(),
		BoardXSize:    xSize,
		BoardYSize:    ySize,
		InitialStones: s.stones,
		AnalyzeTurns:  turns,
	}
}

// AnalyzeGame — неглубокий проход по всем ходам партии. Успех целиком
// заменяет прежние результаты, ошибка оставляет их нетронутыми.
func (s *Session) AnalyzeGame(ctx context.Context) error {
	return s.AnalyzeGameWithProgress(ctx, nil)
}

// AnalyzeGameWithProgress то же, но onTurn дёргается на каждый ход
// по мере выдачи движка. Порядок вызовов не гарантирован.
func (s *Session) AnalyzeGameWithProgress(ctx context.Context, onTurn func(turn int, summary domain.TurnSummary)) error {
	turns := make([]int, len(s.moves))
	for i := range turns {
		turns[i] = i
	}

	var onResult func(domain.AnalysisResponse)
	if onTurn != nil {
		onResult = func(resp domain.AnalysisResponse) {
			summary, err := s.summaryFromResponse(resp)
			if err != nil {
				s.log.Errorw("skipping progress update", "turn", resp.TurnNumber, "error", err)
				return
			}
			onTurn(resp.TurnNumber, summary)
		}
	}

	responses, err := s.oracle.AnalyzeGame(ctx, s.buildRequest(turns), onResult)
	if err != nil {
		return err
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].TurnNumber < responses[j].TurnNumber
	})

	s.mu.Lock()
	s.gameAnalysis = responses
	s.mu.Unlock()
	return nil
}

// AnalyzeTurnDeep — глубокий анализ одного хода, опционально ограниченный
// набором позиций. invert превращает белый список в чёрный. Результат
// замещает прежний глубокий анализ только этого хода.
func (s *Session) AnalyzeTurnDeep(ctx context.Context, turn int, selection []string, invert bool) error {
	if turn < 0 || turn >= len(s.moves) {
		return fmt.Errorf("%w: turn %d, game has %d moves", apperrors.ErrRange, turn, len(s.moves))
	}

	req := s.buildRequest([]int{turn})
	if len(selection) > 0 {
		filter := domain.MoveFilter{
			Player:     s.moves[turn][0],
			Moves:      selection,
			UntilDepth: turn + lookaheadWindow,
		}
		if invert {
			req.AvoidMoves = []domain.MoveFilter{filter}
		} else {
			req.AllowMoves = []domain.MoveFilter{filter}
		}
	}

	resp, err := s.oracle.AnalyzeTurn(ctx, req)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.turnAnalysis[turn] = resp
	s.mu.Unlock()
	return nil
}

// DeepCandidates возвращает лучшие ходы из глубокого анализа. selection
// дополнительно фильтрует выдачу движка: движку ограничение лишь
// подсказка, он может вернуть ходы вне списка. Если после фильтра
// не остаётся ничего, отдаём нефильтрованный список.
func (s *Session) DeepCandidates(turn int, selection []string, invert bool) ([]domain.CandidateMove, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.turnAnalysis[turn]
	if !ok {
		return nil, fmt.Errorf("%w: turn %d", apperrors.ErrNotAnalyzed, turn)
	}

	moveInfos := entry.MoveInfos
	if len(selection) > 0 {
		selected := make(map[string]bool, len(selection))
		for _, pos := range selection {
			selected[pos] = true
		}
		filtered := make([]domain.MoveInfo, 0, len(moveInfos))
		for _, info := range moveInfos {
			if selected[info.Move] != invert {
				filtered = append(filtered, info)
			}
		}
		if len(filtered) > 0 {
			moveInfos = filtered
		}
	}

	limit := s.cfg.MovesPerTurn
	if limit > len(moveInfos) {
		limit = len(moveInfos)
	}

	candidates := make([]domain.CandidateMove, 0, limit)
	for _, info := range moveInfos[:limit] {
		scoreLead := info.ScoreLead
		winrate := info.Winrate
		if s.player == "W" {
			scoreLead = -scoreLead
			winrate = 1 - winrate
		}
		pv := info.PV
		if len(pv) > s.cfg.PVMaxLength {
			pv = pv[:s.cfg.PVMaxLength]
		}
		candidates = append(candidates, domain.CandidateMove{
			Move:              info.Move,
			Winrate:           winrate,
			ScoreLead:         scoreLead,
			Policy:            info.Policy,
			PossibleVariation: pv,
		})
	}
	return candidates, nil
}

// TurnSummary — базовые данные одного хода из общего прохода.
func (s *Session) TurnSummary(turn int) (domain.TurnSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turnSummaryLocked(turn)
}

func (s *Session) turnSummaryLocked(turn int) (domain.TurnSummary, error) {
	if s.gameAnalysis == nil {
		return domain.TurnSummary{}, fmt.Errorf("%w: run the game analysis first", apperrors.ErrRange)
	}
	if turn < 0 || turn >= len(s.gameAnalysis) {
		return domain.TurnSummary{}, fmt.Errorf("%w: turn %d, analyzed %d", apperrors.ErrRange, turn, len(s.gameAnalysis))
	}
	return s.summaryFromResponse(s.gameAnalysis[turn])
}

func (s *Session) summaryFromResponse(resp domain.AnalysisResponse) (domain.TurnSummary, error) {
	best, ok := orderZero(resp.MoveInfos)
	if !ok {
		return domain.TurnSummary{}, fmt.Errorf("%w: no best move for turn %d", apperrors.ErrOracle, resp.TurnNumber)
	}

	winrate := resp.RootInfo.Winrate
	scoreLead := resp.RootInfo.ScoreLead
	bestScoreLead := best.ScoreLead
	if s.player == "W" {
		winrate = 1 - winrate
		scoreLead = -scoreLead
		bestScoreLead = -bestScoreLead
	}

	return domain.TurnSummary{
		Winrate:           winrate,
		ScoreLead:         scoreLead,
		BestMove:          best.Move,
		BestMoveScoreLead: bestScoreLead,
		NextPlayer:        opponent(resp.RootInfo.CurrentPlayer),
	}, nil
}

// GameScoreLead — серия scoreLead по всем ходам, для графика.
func (s *Session) GameScoreLead() ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameScoreLeadLocked()
}

func (s *Session) gameScoreLeadLocked() ([]float64, error) {
	if s.gameAnalysis == nil {
		return nil, fmt.Errorf("%w: run the game analysis first", apperrors.ErrRange)
	}
	leads := make([]float64, 0, len(s.gameAnalysis))
	for _, resp := range s.gameAnalysis {
		lead := resp.RootInfo.ScoreLead
		if s.player == "W" {
			lead = -lead
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// ClassifyGame оценивает каждый сыгранный ход партии.
func (s *Session) ClassifyGame() ([]domain.Classification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifyGameLocked()
}

func (s *Session) classifyGameLocked() ([]domain.Classification, error) {
	if s.gameAnalysis == nil {
		return nil, fmt.Errorf("%w: run the game analysis first", apperrors.ErrRange)
	}

	out := make([]domain.Classification, 0, len(s.gameAnalysis))
	for i, resp := range s.gameAnalysis {
		if i >= len(s.moves) {
			break
		}
		played := s.moves[i][1]

		best, ok := orderZero(resp.MoveInfos)
		if !ok {
			return nil, fmt.Errorf("%w: no best move for turn %d", apperrors.ErrOracle, i)
		}
		if best.Move == played {
			out = append(out, domain.ClassBest)
			continue
		}

		// Исход сыгранного хода: оценка из списка кандидатов, если движок
		// его рассматривал, иначе оценка следующей позиции.
		var realized float64
		if info, found := findMove(resp.MoveInfos, played); found {
			realized = info.ScoreLead
		} else if i+1 < len(s.gameAnalysis) {
			realized = s.gameAnalysis[i+1].RootInfo.ScoreLead
		} else {
			realized = resp.RootInfo.ScoreLead
		}

		// delta в очках того, кто ходил: для белых знак переворачивается
		delta := best.ScoreLead - realized
		if s.moves[i][0] == "W" {
			delta = -delta
		}
		if delta < 0 {
			delta = 0
		}
		out = append(out, s.classifier.Classify(delta))
	}
	return out, nil
}

// Summary собирает полный ответ для клиента: данные и оценка каждого хода
// плюс серия scoreLead.
func (s *Session) Summary() (domain.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	classifications, err := s.classifyGameLocked()
	if err != nil {
		return domain.GameSummary{}, err
	}

	turnData := make(map[int]domain.TurnSummary, len(classifications))
	for i := range classifications {
		summary, err := s.turnSummaryLocked(i)
		if err != nil {
			return domain.GameSummary{}, err
		}
		summary.Classification = classifications[i]
		turnData[i] = summary
	}

	leads, err := s.gameScoreLeadLocked()
	if err != nil {
		return domain.GameSummary{}, err
	}

	return domain.GameSummary{
		TurnData:      turnData,
		ScoreLeadList: leads,
	}, nil
}

func orderZero(infos []domain.MoveInfo) (domain.MoveInfo, bool) {
	for _, info := range infos {
		if info.Order == 0 {
			return info, true
		}
	}
	return domain.MoveInfo{}, false
}

func findMove(infos []domain.MoveInfo, move string) (domain.MoveInfo, bool) {
	for _, info := range infos {
		if info.Move == move {
			return info, true
		}
	}
	return domain.MoveInfo{}, false
}

func opponent(color string) string {
	if color == "B" {
		return "W"
	}
	return "B"
}
