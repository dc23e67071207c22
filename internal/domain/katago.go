package domain

// Запрос к KataGo в режиме analysis (по одному json на строку в stdin).
type AnalysisRequest struct {
	ID            string       `json:"id"`
	Moves         [][2]string  `json:"moves"` // [["B","D4"], ["W","Q16"], ...]
	Rules         string       `json:"rules"`
	Komi          float64      `json:"komi"`
	BoardXSize    int          `json:"boardXSize"`
	BoardYSize    int          `json:"boardYSize"`
	InitialStones [][2]string  `json:"initialStones"`
	AnalyzeTurns  []int        `json:"analyzeTurns"`
	AllowMoves    []MoveFilter `json:"allowMoves,omitempty"`
	AvoidMoves    []MoveFilter `json:"avoidMoves,omitempty"`
	MaxVisits     int          `json:"maxVisits,omitempty"`
}

// Ограничение перебора: белый список (allowMoves) либо чёрный (avoidMoves).
type MoveFilter struct {
	Player     string   `json:"player"`
	Moves      []string `json:"moves"`
	UntilDepth int      `json:"untilDepth"`
}

// Ответ KataGo: один объект на каждый проанализированный ход.
// Порядок строк в stdout не гарантирован, сортировать по TurnNumber.
type AnalysisResponse struct {
	ID             string     `json:"id"`
	TurnNumber     int        `json:"turnNumber"`
	IsDuringSearch bool       `json:"isDuringSearch"`
	RootInfo       RootInfo   `json:"rootInfo"`
	MoveInfos      []MoveInfo `json:"moveInfos"`
	Error          string     `json:"error,omitempty"`
	Warning        string     `json:"warning,omitempty"`
}

// Информация о корневой позиции (общая информация)
type RootInfo struct {
	CurrentPlayer string  `json:"currentPlayer"` // "W" или "B"
	Winrate       float64 `json:"winrate"`
	ScoreLead     float64 `json:"scoreLead"`
	ScoreSelfplay float64 `json:"scoreSelfplay"`
	ScoreStdev    float64 `json:"scoreStdev"`
	Utility       float64 `json:"utility"`
	Visits        int     `json:"visits"`
}

// Информация о возможных ходах (вариантах). Order 0 — лучший ход по мнению движка.
type MoveInfo struct {
	Move      string   `json:"move"`
	Order     int      `json:"order"`
	Winrate   float64  `json:"winrate"`
	Visits    int      `json:"visits"`
	ScoreLead float64  `json:"scoreLead"`
	Policy    float64  `json:"policy"`
	PV        []string `json:"pv"` // Principal Variation (последовательность ходов)
}
