package domain

import "time"

// Партия в архиве. Результаты анализа не сохраняются, только запись игры.
type ArchivedGame struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	PlayerBlack string    `bson:"player_black" json:"playerBlack"`
	PlayerWhite string    `bson:"player_white" json:"playerWhite"`
	Result      string    `bson:"result" json:"result"`
	SGF         string    `bson:"sgf" json:"sgf"`
	Year        int       `bson:"year" json:"year"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

type ArchiveResponse struct {
	Games   []ArchivedGame `json:"games"`
	Page    int            `json:"page"`
	HasMore bool           `json:"hasMore"`
}
