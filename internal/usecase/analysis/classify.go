package analysis

import (
	"fmt"

	"goreview/internal/domain"
	apperrors "goreview/internal/errors"
)

// Classifier переводит потерю очков относительно лучшего хода в оценку.
// BEST сюда не попадает: он присваивается только за совпадение
// с лучшим ходом движка, ещё до таблицы порогов.
type Classifier struct {
	thresholds []float64
}

var tiers = []domain.Classification{
	domain.ClassExcellent,
	domain.ClassGood,
	domain.ClassInaccuracy,
	domain.ClassMistake,
}

func NewClassifier(thresholds []float64) (*Classifier, error) {
	if len(thresholds) != len(tiers) {
		return nil, fmt.Errorf("%w: expected %d thresholds, got %d", apperrors.ErrConfiguration, len(tiers), len(thresholds))
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return nil, fmt.Errorf("%w: thresholds must increase, got %v", apperrors.ErrConfiguration, thresholds)
		}
	}
	return &Classifier{thresholds: thresholds}, nil
}

// Classify: попадание точно на порог округляется к лучшей оценке.
func (c *Classifier) Classify(delta float64) domain.Classification {
	for i, t := range c.thresholds {
		if delta <= t {
			return tiers[i]
		}
	}
	return domain.ClassBlunder
}
