package history

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/testeddoughnut/pithos/internal/api"
	"github.com/testeddoughnut/pithos/internal/apperrors"
)

// RegisterRoutes wires history routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodGet, "/v1/history", api.Handler(listPlays(service)))
	router.Method(http.MethodGet, "/v1/history/{play_id}", api.Handler(getPlay(service)))
}

// listPlays retrieves recorded plays, newest first.
// GET /v1/history
func listPlays(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset, err := parsePagination(r)
		if err != nil {
			return err
		}

		plays, _, hasMore, err := service.ListPlays(limit, offset)
		if err != nil {
			return apperrors.NewInternalError("Failed to list plays")
		}

		return api.WriteList(w, "/v1/history", plays, hasMore)
	}
}

// getPlay retrieves a single play by ID.
// GET /v1/history/{play_id}
func getPlay(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		playID := chi.URLParam(r, "play_id")

		play, err := service.repo.GetPlay(playID)
		if err != nil {
			return apperrors.NewInternalError("Failed to get play")
		}
		if play == nil {
			return apperrors.NewNotFoundError("Play not found", map[string]any{"play_id": playID})
		}

		return api.WriteResource(w, http.StatusOK, play)
	}
}

func parsePagination(r *http.Request) (limit, offset int, err error) {
	query := r.URL.Query()

	limit = DefaultQueryLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, parseErr := strconv.Atoi(limitStr)
		if parseErr != nil || parsed < 1 || parsed > MaxQueryLimit {
			return 0, 0, apperrors.NewValidationError("invalid limit, must be between 1 and 1000", map[string]any{
				"limit": limitStr,
			})
		}
		limit = parsed
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		parsed, parseErr := strconv.Atoi(offsetStr)
		if parseErr != nil || parsed < 0 {
			return 0, 0, apperrors.NewValidationError("invalid offset, must be >= 0", map[string]any{
				"offset": offsetStr,
			})
		}
		offset = parsed
	}

	return limit, offset, nil
}
