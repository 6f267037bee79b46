package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/testeddoughnut/pithos/internal/api"
	"github.com/testeddoughnut/pithos/internal/apperrors"
	"github.com/testeddoughnut/pithos/internal/config"
)

// RegisterRoutes wires auth routes to the router.
func RegisterRoutes(router chi.Router, cfg config.RemoteConfig) {
	router.Method(http.MethodPost, "/v1/auth/pair", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var body struct {
			PairingCode string `json:"pairing_code"`
			DeviceName  string `json:"device_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("pairing_code is required", nil)
		}
		if body.PairingCode == "" {
			return apperrors.NewValidationError("pairing_code is required", nil)
		}
		if body.DeviceName == "" {
			return apperrors.NewValidationError("device_name is required", nil)
		}

		if subtle.ConstantTimeCompare([]byte(body.PairingCode), []byte(cfg.PairingCode)) != 1 {
			return apperrors.NewUnauthorizedError("Invalid pairing code", apperrors.ErrorCodePairingCodeInvalid)
		}

		token, err := GenerateToken(cfg, TokenPayload{
			Sub:        uuid.NewString(),
			DeviceName: body.DeviceName,
		})
		if err != nil {
			return apperrors.NewInternalError("Failed to generate token")
		}

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"object":         "token",
			"access_token":   token,
			"expires_in_sec": cfg.TokenExpirySec,
		})
	}))
}
