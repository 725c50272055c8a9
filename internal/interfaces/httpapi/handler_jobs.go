package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-history/internal/usecase"
)

// RunExtractJob is the queue consumer for post-write extraction.
func (h *Handler) RunExtractJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunExtractJob")
	defer span.End()

	if h.extraction == nil {
		writeError(ctx, w, fmt.Errorf("%w: extraction is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req extractJobRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.extraction.ReextractByID(ctx, req.MatchRecordID)
	if err != nil {
		h.logger.WarnContext(ctx, "run extract job failed", "match_record_id", req.MatchRecordID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, extractJobDTO{
		MatchRecordID:   result.MatchRecordID,
		ShotsStored:     result.Shots.Stored,
		ShotsSkipped:    result.Shots.Skipped,
		PlayersStored:   result.Performances.Stored,
		NonParticipants: result.Performances.NonParticipants,
		Malformed:       result.Performances.Malformed,
	})
}
