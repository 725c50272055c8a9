package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/usecase"
)

type matchGate interface {
	EnsureAvailable(ctx context.Context, input usecase.EnsureInput) (usecase.Availability, error)
	EnsureAvailableAsync(ctx context.Context, input usecase.EnsureInput) (usecase.AsyncAvailability, error)
}

type aggregateReader interface {
	Get(ctx context.Context, query usecase.AggregateQuery) (usecase.AggregateView, error)
}

type matchQueries interface {
	ListShots(ctx context.Context, matchRecordID int64) ([]shot.Event, error)
	ListPerformances(ctx context.Context, matchRecordID int64) ([]performance.Record, error)
}

type extractionRunner interface {
	ReextractByID(ctx context.Context, matchRecordID int64) (usecase.ExtractionResult, error)
}

type Handler struct {
	gate       matchGate
	aggregates aggregateReader
	queries    matchQueries
	extraction extractionRunner
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(
	gate matchGate,
	aggregates aggregateReader,
	queries matchQueries,
	extraction extractionRunner,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gate:       gate,
		aggregates: aggregates,
		queries:    queries,
		extraction: extraction,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type matchListRequest struct {
	Nickname string `validate:"required,max=64"`
	Category string `validate:"omitempty,oneof=official classic manager friendly"`
	Limit    int    `validate:"gte=0,lte=100"`
}

type aggregateRequest struct {
	Nickname string `validate:"required,max=64"`
	Kind     string `validate:"required,oneof=form shots players"`
	Category string `validate:"omitempty,oneof=official classic manager friendly"`
	Window   int    `validate:"gte=0,lte=100"`
}

type matchRecordRequest struct {
	MatchRecordID int64 `validate:"required,gt=0"`
}

type extractJobRequest struct {
	MatchRecordID int64 `json:"match_record_id" validate:"required,gt=0"`
}

func parseOptionalInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

func parsePathID(name, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

func decodeJSONBody(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
