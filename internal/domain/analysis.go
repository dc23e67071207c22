package domain

// Оценка качества сыгранного хода.
type Classification string

const (
	ClassBest       Classification = "BEST"
	ClassExcellent  Classification = "EXCELLENT"
	ClassGood       Classification = "GOOD"
	ClassInaccuracy Classification = "INACCURACY"
	ClassMistake    Classification = "MISTAKE"
	ClassBlunder    Classification = "BLUNDER"
)

// Сводка по одному ходу партии, все числа с точки зрения выбранного игрока.
type TurnSummary struct {
	Winrate           float64        `json:"winrate"`
	ScoreLead         float64        `json:"scoreLead"`
	BestMove          string         `json:"bestMove"`
	BestMoveScoreLead float64        `json:"bestMoveScoreLead"`
	NextPlayer        string         `json:"nextPlayer"`
	Classification    Classification `json:"classification,omitempty"`
}

type GameSummary struct {
	TurnData      map[int]TurnSummary `json:"turnData"`
	ScoreLeadList []float64           `json:"scoreLeadList"`
}

// Кандидат из глубокого анализа хода.
type CandidateMove struct {
	Move              string   `json:"move"`
	Winrate           float64  `json:"winrate"`
	ScoreLead         float64  `json:"scoreLead"`
	Policy            float64  `json:"policy"`
	PossibleVariation []string `json:"possibleVariation"`
}

type DeepTurnResult struct {
	Turn            int             `json:"turn"`
	Selection       []string        `json:"selection,omitempty"`
	InvertSelection bool            `json:"invertSelection"`
	BestMoves       []CandidateMove `json:"bestMoves"`
}
