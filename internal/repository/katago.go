package repo

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"goreview/internal/bootstrap"
	"goreview/internal/domain"
	apperrors "goreview/internal/errors"
)

// KatagoAnalyzer запускает KataGo в режиме analysis: один запрос в stdin,
// по одному json-ответу на строку stdout на каждый ход из analyzeTurns.
// Процесс живёт один вызов, ответ ждём до завершения процесса.
type KatagoAnalyzer struct {
	cfg *bootstrap.Config
	log *zap.SugaredLogger
}

func NewKatagoAnalyzer(cfg *bootstrap.Config, log *zap.SugaredLogger) *KatagoAnalyzer {
	return &KatagoAnalyzer{
		cfg: cfg,
		log: log,
	}
}

// AnalyzeGame — неглубокий проход по всей партии. onResult, если задан,
// вызывается на каждый разобранный ответ в порядке выдачи движка
// (движок ничего не гарантирует про порядок).
func (k *KatagoAnalyzer) AnalyzeGame(ctx context.Context, req domain.AnalysisRequest, onResult func(domain.AnalysisResponse)) ([]domain.AnalysisResponse, error) {
	return k.run(ctx, k.cfg.GameAnalysisConfig, req, onResult)
}

// AnalyzeTurn — глубокий анализ одного хода.
func (k *KatagoAnalyzer) AnalyzeTurn(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	responses, err := k.run(ctx, k.cfg.TurnAnalysisConfig, req, nil)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}
	if len(responses) == 0 {
		return domain.AnalysisResponse{}, fmt.Errorf("%w: empty output for request %s", apperrors.ErrOracle, req.ID)
	}
	return responses[len(responses)-1], nil
}

func (k *KatagoAnalyzer) run(ctx context.Context, configPath string, req domain.AnalysisRequest, onResult func(domain.AnalysisResponse)) ([]domain.AnalysisResponse, error) {
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", apperrors.ErrOracle, err)
	}

	cmd := exec.CommandContext(ctx,
		k.cfg.KatagoPath,
		"analysis",
		"-model", k.cfg.KatagoModel,
		"-config", configPath,
	)
	cmd.Stdin = bytes.NewReader(append(requestJSON, '\n'))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOracle, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", apperrors.ErrOracle, k.cfg.KatagoPath, err)
	}

	k.log.Infow("katago started", "id", req.ID, "turns", len(req.AnalyzeTurns))

	responses := make([]domain.AnalysisResponse, 0, len(req.AnalyzeTurns))
	scanner := bufio.NewScanner(stdoutPipe)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var resp domain.AnalysisResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			k.log.Errorw("failed to unmarshal katago response", "error", err, "line", line)
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return nil, fmt.Errorf("%w: unparsable output line", apperrors.ErrOracle)
		}
		if resp.Error != "" {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return nil, fmt.Errorf("%w: %s", apperrors.ErrOracle, resp.Error)
		}
		if resp.IsDuringSearch {
			continue
		}

		responses = append(responses, resp)
		if onResult != nil {
			onResult(resp)
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrOracle, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v, stderr: %s", apperrors.ErrOracle, err, tail(stderr.String()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read output: %v", apperrors.ErrOracle, err)
	}
	if len(responses) < len(req.AnalyzeTurns) {
		return nil, fmt.Errorf("%w: got %d results for %d turns", apperrors.ErrOracle, len(responses), len(req.AnalyzeTurns))
	}

	return responses, nil
}

func tail(s string) string {
	const limit = 512
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
