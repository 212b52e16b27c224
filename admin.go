package vitrine

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/eringen/vitrine/logging"
)

const headerAuthToken = "X-Auth-Token"

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func newValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

func (a *App) authorized(c echo.Context) bool {
	if a.Config.AuthToken == "" {
		return false
	}
	token := c.Request().Header.Get(headerAuthToken)
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.Config.AuthToken)) == 1
}

// handleConfigUpdate stores new Places credentials. Only the shared secret
// header authenticates the caller.
func (a *App) handleConfigUpdate(c echo.Context) error {
	if !a.authorized(c) {
		a.Metrics.adminUpdate("unauthorized")
		logging.Warn().Str("remote_ip", c.RealIP()).Msg("config update with bad token")
		return adminError(c, http.StatusUnauthorized, "Não autorizado")
	}

	var req ConfigRequest
	if err := c.Bind(&req); err != nil {
		a.Metrics.adminUpdate("invalid")
		return adminError(c, http.StatusBadRequest, "Corpo da requisição inválido")
	}
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.PlaceID = strings.TrimSpace(req.PlaceID)
	if err := c.Validate(&req); err != nil {
		a.Metrics.adminUpdate("invalid")
		return adminError(c, http.StatusBadRequest, "apiKey e placeId são obrigatórios")
	}

	if err := a.Credentials.Save(c.Request().Context(), StoredCredentials{
		GoogleAPIKey:  req.APIKey,
		GooglePlaceID: req.PlaceID,
	}); err != nil {
		a.Metrics.adminUpdate("error")
		logging.Error().Err(err).Msg("saving credentials")
		return adminError(c, http.StatusInternalServerError, "Erro ao salvar configuração")
	}
	a.Cache.Invalidate()
	a.Metrics.adminUpdate("saved")
	logging.Info().Str("place_id", req.PlaceID).Msg("credentials updated")

	return c.JSON(http.StatusOK, AdminResponse{Success: true, Message: "Configuração salva com sucesso"})
}
