package vitrine

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/vitrine/embed"
	"github.com/eringen/vitrine/logging"
	"github.com/eringen/vitrine/reviews"
	"github.com/eringen/vitrine/views"
)

func (a *App) handleReviews(c echo.Context) error {
	sum, err := a.Reviews.Fetch(c.Request().Context())
	if err != nil {
		code, body := a.reviewsFailure(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, sum)
}

// handleReviewsFragment always answers 200 so the block can be swapped in
// place; failures render the inline error message.
func (a *App) handleReviewsFragment(c echo.Context) error {
	sum, err := a.Reviews.Fetch(c.Request().Context())
	if err != nil {
		_, body := a.reviewsFailure(c, err)
		return Render(c, a.Views.ReviewsError(body.Error))
	}
	return Render(c, a.Views.ReviewsFragment(sum, a.now()))
}

// reviewsFailure maps a fetch error to a status and a user-facing body. The
// detail stays in the log.
func (a *App) reviewsFailure(c echo.Context, err error) (int, ErrorResponse) {
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)
	var ue *reviews.UpstreamError
	switch {
	case errors.Is(err, reviews.ErrNotConfigured):
		logging.Warn().Err(err).Str("request_id", reqID).Msg("reviews requested but credentials are missing")
		return http.StatusInternalServerError, ErrorResponse{Error: views.MsgNotConfigured}
	case errors.Is(err, reviews.ErrUpstreamUnavailable):
		logging.Warn().Err(err).Str("request_id", reqID).Msg("places breaker open")
		return http.StatusServiceUnavailable, ErrorResponse{Error: views.MsgUnavailable}
	case errors.As(err, &ue):
		logging.Error().Err(err).Int("upstream_status", ue.Status).Str("reason", ue.Reason).Str("request_id", reqID).Msg("places upstream failure")
		return http.StatusBadGateway, ErrorResponse{Error: views.MsgUnavailable, UpstreamStatus: ue.Status}
	default:
		logging.Error().Err(err).Str("request_id", reqID).Msg("places request failed")
		return http.StatusBadGateway, ErrorResponse{Error: views.MsgUnavailable}
	}
}

func (a *App) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Success:   true,
		Message:   "Servidor está rodando",
		Timestamp: a.now().UTC(),
	})
}

// handleEmbed renders the iframe for ?permalink= so pages without the
// client script still get a working embed.
func (a *App) handleEmbed(c echo.Context) error {
	src, err := embed.EmbedURL(c.QueryParam("permalink"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return Render(c, a.Views.EmbedFrame(embed.Frame{Src: src, Title: c.QueryParam("title")}))
}

// handleHome serves index.html with the JSON-LD aggregateRating patched from
// live data. Any failure, or SchemaPatchDisabled, serves the page as it is
// on disk.
func (a *App) handleHome(c echo.Context) error {
	page, err := os.ReadFile(filepath.Join(a.Config.StaticDir, "index.html"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	if a.Config.SchemaPatchDisabled {
		return c.HTMLBlob(http.StatusOK, page)
	}

	sum, err := a.Reviews.Fetch(c.Request().Context())
	switch {
	case errors.Is(err, reviews.ErrNotConfigured):
	case err != nil:
		logging.Warn().Err(err).Msg("home: live rating unavailable, serving static schema")
	case len(sum.Reviews) > 0:
		patched, perr := reviews.PatchPage(page, sum.Rating, sum.UserRatingCount)
		if perr != nil {
			logging.Warn().Err(perr).Msg("home: schema.org rating not patched")
		}
		page = patched
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		msg = http.StatusText(code)
	}
	if isAPIPath(c.Request().URL.Path) {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = jsonError(c, code, msg)
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}
	return time.Now()
}
