package handlers

import (
	"net/http"

	"github.com/futchampions/tracker-api/internal/models"
)

// CreateLeague opens a new league owned by the caller
// @Summary Create League
// @Tags Leagues
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body models.CreateLeagueRequest true "League"
// @Success 201 {object} models.League
// @Router /leagues [post]
func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLeagueRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	league, err := h.leagues.CreateLeague(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		h.serviceError(w, "create league", err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, league)
}

// JoinLeague adds the caller to a league by invite code
// @Summary Join League
// @Tags Leagues
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body models.JoinLeagueRequest true "Invite"
// @Success 200 {object} models.League
// @Failure 404 {object} map[string]string "Unknown invite code"
// @Failure 409 {object} map[string]string "Already a member"
// @Router /leagues/join [post]
func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	var req models.JoinLeagueRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	league, err := h.leagues.JoinLeague(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		h.serviceError(w, "join league", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, league)
}

// ListLeagues returns the leagues the caller belongs to
// @Summary List Leagues
// @Tags Leagues
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {array} models.League
// @Router /leagues [get]
func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagues.ListLeagues(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.serviceError(w, "list leagues", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, leagues)
}

// GetStandings returns the ranked table for one league
// @Summary League Standings
// @Tags Leagues
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param leagueID path string true "League ID"
// @Success 200 {array} models.LeagueStanding
// @Failure 404 {object} map[string]string "Not a member"
// @Router /leagues/{leagueID}/standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.uuidParam(w, r, "leagueID")
	if !ok {
		return
	}

	table, err := h.leagues.GetStandings(r.Context(), userIDFromContext(r.Context()), leagueID)
	if err != nil {
		h.serviceError(w, "standings", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, table)
}
