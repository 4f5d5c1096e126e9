package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/models"
	"github.com/futchampions/tracker-api/internal/worker"
)

// CreateRun starts a new weekly run
// @Summary Create Run
// @Tags Runs
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body models.CreateRunRequest true "Run"
// @Success 201 {object} models.WeeklyRun
// @Failure 422 {object} map[string]string "Validation Error"
// @Router /runs [post]
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRunRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	run, err := h.runs.CreateRun(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		h.serviceError(w, "create run", err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, run)
}

// ListRuns returns the caller's runs for a game version, newest first
// @Summary List Runs
// @Tags Runs
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param version query string false "Game version"
// @Success 200 {array} models.WeeklyRun
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.ListRuns(r.Context(), userIDFromContext(r.Context()), h.version(r))
	if err != nil {
		h.serviceError(w, "list runs", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, runs)
}

// GetRun returns one run with its games
// @Summary Get Run
// @Tags Runs
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Success 200 {object} models.WeeklyRun
// @Failure 404 {object} map[string]string "Not Found"
// @Router /runs/{runID} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}

	run, err := h.runs.GetRun(r.Context(), userIDFromContext(r.Context()), runID)
	if err != nil {
		h.serviceError(w, "get run", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, run)
}

// UpdateRun changes the name or targets of a run
// @Summary Update Run
// @Tags Runs
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Param body body models.UpdateRunRequest true "Fields to change"
// @Success 200 {object} models.WeeklyRun
// @Router /runs/{runID} [patch]
func (h *Handler) UpdateRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}
	var req models.UpdateRunRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	run, err := h.runs.UpdateRun(r.Context(), userIDFromContext(r.Context()), runID, req)
	if err != nil {
		h.serviceError(w, "update run", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, run)
}

// CompleteRun closes a run to further games
// @Summary Complete Run
// @Tags Runs
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Success 200 {object} models.WeeklyRun
// @Router /runs/{runID}/complete [post]
func (h *Handler) CompleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}

	run, err := h.runs.CompleteRun(r.Context(), userIDFromContext(r.Context()), runID)
	if err != nil {
		h.serviceError(w, "complete run", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, run)
}

// DeleteRun removes a run and its games
// @Summary Delete Run
// @Tags Runs
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Success 204
// @Router /runs/{runID} [delete]
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}
	userID := userIDFromContext(r.Context())

	run, err := h.runs.GetRun(r.Context(), userID, runID)
	if err != nil {
		h.serviceError(w, "delete run", err)
		return
	}
	if err := h.runs.DeleteRun(r.Context(), userID, runID); err != nil {
		h.serviceError(w, "delete run", err)
		return
	}
	h.queueRecalculation(userID, run.GameVersion)
	w.WriteHeader(http.StatusNoContent)
}

// LogGame records a game in a run and returns post-game feedback
// @Summary Log Game
// @Tags Games
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Param body body models.LogGameRequest true "Game"
// @Success 201 {object} models.LogGameResponse
// @Failure 409 {object} map[string]string "Duplicate game number"
// @Failure 422 {object} map[string]string "Run full or completed"
// @Router /runs/{runID}/games [post]
func (h *Handler) LogGame(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}
	var req models.LogGameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	userID := userIDFromContext(ctx)

	game, run, err := h.runs.AddGame(ctx, userID, runID, req)
	if err != nil {
		h.serviceError(w, "log game", err)
		return
	}

	resp := models.LogGameResponse{Game: *game, Run: *run}
	if h.feedback != nil {
		history, err := h.runs.ListGames(ctx, userID, run.GameVersion)
		if err != nil {
			// Feedback is best effort; the game is already stored
			h.logger.Warnw("Failed to load history for feedback", "user_id", userID, "error", err)
			history = run.Games
		}
		fb := h.feedback.Select(*game, history)
		resp.Feedback = &fb
	}

	h.ingest(*game, run.GameVersion)
	h.jsonResponse(w, http.StatusCreated, resp)
}

// UpdateGame corrects a logged game
// @Summary Update Game
// @Tags Games
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Param gameID path string true "Game ID"
// @Param body body models.LogGameRequest true "Game"
// @Success 200 {object} models.LogGameResponse
// @Router /runs/{runID}/games/{gameID} [put]
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}
	gameID, ok := h.uuidParam(w, r, "gameID")
	if !ok {
		return
	}
	var req models.LogGameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	game, run, err := h.runs.UpdateGame(r.Context(), userIDFromContext(r.Context()), runID, gameID, req)
	if err != nil {
		h.serviceError(w, "update game", err)
		return
	}

	h.ingest(*game, run.GameVersion)
	h.jsonResponse(w, http.StatusOK, models.LogGameResponse{Game: *game, Run: *run})
}

// DeleteGame removes a logged game
// @Summary Delete Game
// @Tags Games
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Param gameID path string true "Game ID"
// @Success 200 {object} models.WeeklyRun
// @Router /runs/{runID}/games/{gameID} [delete]
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}
	gameID, ok := h.uuidParam(w, r, "gameID")
	if !ok {
		return
	}
	userID := userIDFromContext(r.Context())

	run, err := h.runs.DeleteGame(r.Context(), userID, runID, gameID)
	if err != nil {
		h.serviceError(w, "delete game", err)
		return
	}

	h.queueRecalculation(userID, run.GameVersion)
	h.jsonResponse(w, http.StatusOK, run)
}

// GetRunChunks returns beginning/middle/end aggregates for one run
// @Summary Run Chunks
// @Tags Analytics
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Success 200 {object} models.RunChunkStats
// @Router /runs/{runID}/chunks [get]
func (h *Handler) GetRunChunks(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}

	run, err := h.runs.GetRun(r.Context(), userIDFromContext(r.Context()), runID)
	if err != nil {
		h.serviceError(w, "run chunks", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, logic.CalculateRunChunks(run))
}

// GetRunInsights returns heuristic observations about one run
// @Summary Run Insights
// @Tags Analytics
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param runID path string true "Run ID"
// @Success 200 {object} models.RunInsights
// @Router /runs/{runID}/insights [get]
func (h *Handler) GetRunInsights(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.uuidParam(w, r, "runID")
	if !ok {
		return
	}

	run, err := h.runs.GetRun(r.Context(), userIDFromContext(r.Context()), runID)
	if err != nil {
		h.serviceError(w, "run insights", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, logic.BuildRunInsights(run))
}

// ingest hands a stored game to the analytics pool. If the pool sheds it,
// achievements are still queued directly.
func (h *Handler) ingest(game models.Game, version string) {
	if h.pool != nil && h.pool.Enqueue(game, version) {
		return
	}
	h.queueRecalculation(game.UserID, version)
}

func (h *Handler) queueRecalculation(userID uuid.UUID, version string) {
	if h.recalc == nil {
		return
	}
	h.recalc.Enqueue(worker.RecalcJob{UserID: userID, Version: version})
}
