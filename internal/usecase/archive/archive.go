package archive

import (
	"context"

	"goreview/internal/domain"
	"goreview/internal/domain/sgf"
)

type ArchiveStore interface {
	SaveGame(ctx context.Context, game domain.ArchivedGame) (string, error)
	GetGames(ctx context.Context, pageNum int) (*domain.ArchiveResponse, error)
	GetGamesByYear(ctx context.Context, year int, pageNum int) (*domain.ArchiveResponse, error)
	GetGameById(ctx context.Context, id string) (*domain.ArchivedGame, error)
}

type ArchiveUseCase struct {
	store ArchiveStore
}

func NewArchiveUseCase(store ArchiveStore) *ArchiveUseCase {
	return &ArchiveUseCase{store: store}
}

// SaveGame проверяет, что запись вообще разбирается, и кладёт её в архив.
// Результаты анализа в архив не попадают.
func (a *ArchiveUseCase) SaveGame(ctx context.Context, game domain.ArchivedGame) (string, error) {
	if _, err := sgf.Parse(game.SGF); err != nil {
		return "", err
	}
	return a.store.SaveGame(ctx, game)
}

func (a *ArchiveUseCase) GetGames(ctx context.Context, year int, pageNum int) (*domain.ArchiveResponse, error) {
	if year != 0 {
		return a.store.GetGamesByYear(ctx, year, pageNum)
	}
	return a.store.GetGames(ctx, pageNum)
}

func (a *ArchiveUseCase) GetGameById(ctx context.Context, id string) (*domain.ArchivedGame, error) {
	return a.store.GetGameById(ctx, id)
}
