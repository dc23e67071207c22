package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goreview/internal/bootstrap"
	"goreview/internal/domain"
	apperrors "goreview/internal/errors"
)

type ArchiveRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewArchiveRepository(cfg bootstrap.Config, log *zap.SugaredLogger, mongo *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{
		cfg:   cfg,
		log:   log,
		mongo: mongo,
	}
}

func (a *ArchiveRepository) SaveGame(ctx context.Context, game domain.ArchivedGame) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	game.Year = game.CreatedAt.Year()

	collection := a.mongo.Collection("archive")
	if _, err := collection.InsertOne(ctx, game); err != nil {
		a.log.Errorw("failed to insert game into archive", "error", err)
		return "", err
	}
	return game.ID, nil
}

func (a *ArchiveRepository) GetGames(ctx context.Context, pageNum int) (*domain.ArchiveResponse, error) {
	return a.findGames(ctx, bson.M{}, pageNum)
}

func (a *ArchiveRepository) GetGamesByYear(ctx context.Context, year int, pageNum int) (*domain.ArchiveResponse, error) {
	return a.findGames(ctx, bson.M{"year": year}, pageNum)
}

func (a *ArchiveRepository) findGames(ctx context.Context, filter bson.M, pageNum int) (*domain.ArchiveResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pageNum < 1 {
		pageNum = 1
	}
	limit := int64(a.cfg.PageLimitArchive)
	skip := int64(pageNum-1) * limit

	collection := a.mongo.Collection("archive")
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit + 1) // одна лишняя запись, чтобы понять есть ли следующая страница

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []domain.ArchivedGame
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}

	hasMore := false
	if int64(len(games)) > limit {
		hasMore = true
		games = games[:limit]
	}

	return &domain.ArchiveResponse{
		Games:   games,
		Page:    pageNum,
		HasMore: hasMore,
	}, nil
}

func (a *ArchiveRepository) GetGameById(ctx context.Context, id string) (*domain.ArchivedGame, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := a.mongo.Collection("archive")
	var game domain.ArchivedGame
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: archived game %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &game, nil
}
