package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/usecase"
)

func (h *Handler) parseMatchList(r *http.Request) (matchListRequest, error) {
	limit, err := parseOptionalInt("limit", r.URL.Query().Get("limit"))
	if err != nil {
		return matchListRequest{}, err
	}
	req := matchListRequest{
		Nickname: r.PathValue("nickname"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
	}
	if err := h.validateRequest(r.Context(), req); err != nil {
		return matchListRequest{}, err
	}
	return req, nil
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	req, err := h.parseMatchList(r.WithContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	availability, err := h.gate.EnsureAvailable(ctx, usecase.EnsureInput{
		Nickname:     req.Nickname,
		Category:     match.Category(req.Category),
		DesiredCount: req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "nickname", req.Nickname, "category", req.Category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availabilityFromUsecase(availability))
}

func (h *Handler) RefreshMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshMatches")
	defer span.End()

	req, err := h.parseMatchList(r.WithContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	availability, err := h.gate.EnsureAvailableAsync(ctx, usecase.EnsureInput{
		Nickname:     req.Nickname,
		Category:     match.Category(req.Category),
		DesiredCount: req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "refresh matches failed", "nickname", req.Nickname, "category", req.Category, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := availabilityFromUsecase(availability.Availability)
	dto.MoreDataIncoming = &availability.MoreDataIncoming
	status := http.StatusOK
	if availability.MoreDataIncoming {
		status = http.StatusAccepted
	}
	writeSuccess(ctx, w, status, dto)
}

func (h *Handler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAggregate")
	defer span.End()

	window, err := parseOptionalInt("window", r.URL.Query().Get("window"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := aggregateRequest{
		Nickname: r.PathValue("nickname"),
		Kind:     r.PathValue("kind"),
		Category: r.URL.Query().Get("category"),
		Window:   window,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.aggregates.Get(ctx, usecase.AggregateQuery{
		Nickname: req.Nickname,
		Category: match.Category(req.Category),
		Kind:     aggregateKind(req.Kind),
		Window:   req.Window,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, aggregateFromUsecase(view))
}

func (h *Handler) ListShots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListShots")
	defer span.End()

	id, err := h.matchRecordID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.queries.ListShots(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]shotDTO, 0, len(events))
	for _, e := range events {
		items = append(items, shotFromDomain(e))
	}
	writeSuccess(ctx, w, http.StatusOK, listDTO[shotDTO]{Items: items})
}

func (h *Handler) ListPerformances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPerformances")
	defer span.End()

	id, err := h.matchRecordID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.queries.ListPerformances(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]performanceDTO, 0, len(rows))
	for _, p := range rows {
		items = append(items, performanceFromDomain(p))
	}
	writeSuccess(ctx, w, http.StatusOK, listDTO[performanceDTO]{Items: items})
}

func (h *Handler) matchRecordID(r *http.Request) (int64, error) {
	id, err := parsePathID("matchRecordID", r.PathValue("matchRecordID"))
	if err != nil {
		return 0, err
	}
	if err := h.validateRequest(r.Context(), matchRecordRequest{MatchRecordID: id}); err != nil {
		return 0, err
	}
	return id, nil
}
