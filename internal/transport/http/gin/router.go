package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/metrics"
	"github.com/kirinyoku/citybus/internal/service"
	"github.com/kirinyoku/citybus/internal/session"
)

// NewRouter builds the HTTP API. m may be nil to run without metrics.
func NewRouter(
	svcs *service.Services,
	m *metrics.Metrics,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	if m != nil {
		r.Use(MetricsMiddleware(m))
	}
	for _, mw := range middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/catalog/location", handleGetLocation(svcs))

	sessions := r.Group("/sessions")
	{
		sessions.POST("", handleStartSession(svcs))
		sessions.GET("/:id", handleGetSession(svcs))
		sessions.DELETE("/:id", handleEndSession(svcs))

		sessions.POST("/:id/auth/credentials", handleSubmitCredentials(svcs))
		sessions.POST("/:id/auth/mode", handleToggleMode(svcs))
		sessions.POST("/:id/auth/code", handleSubmitCode(svcs))
		sessions.POST("/:id/auth/back", handleBackToCredentials(svcs))

		sessions.POST("/:id/search", handleSearchBuses(svcs))
		sessions.POST("/:id/buses/:busID/select", handleSelectBus(svcs))
		sessions.POST("/:id/seats/:number/toggle", handleToggleSeat(svcs))
		sessions.POST("/:id/seats/confirm", handleConfirmSeat(svcs))
		sessions.POST("/:id/back", handleBack(svcs))

		sessions.POST("/:id/booking/confirm", handleConfirmBooking(svcs))
		sessions.GET("/:id/ticket", handleDownloadTicket(svcs))
		sessions.GET("/:id/ticket/share", handleShareTicket(svcs))
		sessions.POST("/:id/home", handleReturnHome(svcs))
	}

	// Admin-API
	admin := r.Group("/admin")
	{
		admin.POST("/catalog/seed", handleSeedCatalog(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Current stop with its buses
// @Success  200  {object}  domain.Location
// @Failure  404  {object}  ErrorResponse
// @Router   /catalog/location [get]
func handleGetLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, err := svcs.Location.Location(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, loc, "public, max-age=60", true)
	}
}

// @Summary  Start a session on the login screen
// @Success  201  {object}  session.View
// @Router   /sessions [post]
func handleStartSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := svcs.Booking.StartSession(c.Request.Context())
		c.Header("Location", "/sessions/"+view.SessionID)
		c.JSON(http.StatusCreated, view)
	}
}

// @Summary  Get session view
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Failure  404  {object}  ErrorResponse
// @Router   /sessions/{id} [get]
func handleGetSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.Session(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		// clients poll while timers run; revalidate every time
		writeJSONWithCache(c, http.StatusOK, view, "no-cache", false)
	}
}

// @Summary  End session
// @Param    id  path  string  true  "Session ID"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /sessions/{id} [delete]
func handleEndSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Booking.EndSession(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Submit login or signup details
// @Param    id   path  string              true  "Session ID"
// @Param    req  body  CredentialsRequest  true  "payload"
// @Success  200  {object}  session.View
// @Failure  400  {object}  ErrorResponse  "missing phone or name"
// @Failure  409  {object}  ErrorResponse  "wrong screen"
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /sessions/{id}/auth/credentials [post]
func handleSubmitCredentials(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svcs.Booking.SubmitCredentials(
			c.Request.Context(),
			c.Param("id"),
			rateLimitKey(c),
			domain.AuthMode(req.Mode),
			req.Name,
			req.Phone,
		)
		respondView(c, view, err)
	}
}

// @Summary  Switch between login and signup
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/auth/mode [post]
func handleToggleMode(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.ToggleMode(c.Request.Context(), c.Param("id"))
		respondView(c, view, err)
	}
}

// @Summary  Submit the one-time code
// @Param    id   path  string       true  "Session ID"
// @Param    req  body  CodeRequest  true  "payload"
// @Success  200  {object}  session.View
// @Failure  400  {object}  ErrorResponse  "missing code"
// @Failure  401  {object}  ErrorResponse  "code rejected"
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /sessions/{id}/auth/code [post]
func handleSubmitCode(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svcs.Booking.SubmitCode(c.Request.Context(), c.Param("id"), rateLimitKey(c), req.Code)
		respondView(c, view, err)
	}
}

// @Summary  Go back to the credentials form
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/auth/back [post]
func handleBackToCredentials(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.BackToCredentials(c.Request.Context(), c.Param("id"))
		respondView(c, view, err)
	}
}

// @Summary  Filter the bus list
// @Param    id   path  string         true  "Session ID"
// @Param    req  body  SearchRequest  true  "payload"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/search [post]
func handleSearchBuses(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svcs.Booking.SearchBuses(c.Request.Context(), c.Param("id"), req.Query)
		respondView(c, view, err)
	}
}

// @Summary  Select a bus and open its seat map
// @Param    id     path  string  true  "Session ID"
// @Param    busID  path  string  true  "Bus ID"
// @Success  200  {object}  session.View
// @Failure  404  {object}  ErrorResponse
// @Router   /sessions/{id}/buses/{busID}/select [post]
func handleSelectBus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.SelectBus(c.Request.Context(), c.Param("id"), c.Param("busID"))
		respondView(c, view, err)
	}
}

// @Summary  Select or deselect a seat
// @Param    id      path  string  true  "Session ID"
// @Param    number  path  int     true  "Seat number"
// @Success  200  {object}  session.View
// @Failure  409  {object}  ErrorResponse  "seat occupied"
// @Router   /sessions/{id}/seats/{number}/toggle [post]
func handleToggleSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, ok := parseIntParam(c, "number")
		if !ok {
			return
		}
		view, err := svcs.Booking.ToggleSeat(c.Request.Context(), c.Param("id"), number)
		respondView(c, view, err)
	}
}

// @Summary  Continue to booking review
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Failure  409  {object}  ErrorResponse  "no seat selected"
// @Router   /sessions/{id}/seats/confirm [post]
func handleConfirmSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.ConfirmSeat(c.Request.Context(), c.Param("id"))
		respondView(c, view, err)
	}
}

// @Summary  Go back one screen
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/back [post]
func handleBack(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.Back(c.Request.Context(), c.Param("id"))
		respondView(c, view, err)
	}
}

// @Summary  Confirm booking (idempotent)
// @Param    id  path  string  true  "Session ID"
// @Header   202 {string} Idempotency-Key "echo"
// @Success  202  {object}  session.View
// @Failure  409  {object}  ErrorResponse  "wrong screen / idem in progress"
// @Router   /sessions/{id}/booking/confirm [post]
func handleConfirmBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))

		view, err := svcs.Booking.ConfirmBooking(c.Request.Context(), c.Param("id"), idemKey)
		if err != nil {
			respondErrView(c, err, view)
			return
		}
		if idemKey != "" {
			c.Header("Idempotency-Key", idemKey)
		}
		c.JSON(http.StatusAccepted, view)
	}
}

// @Summary  Download the digital ticket
// @Param    id  path  string  true  "Session ID"
// @Produce  plain
// @Success  200  {string}  string
// @Failure  409  {object}  ErrorResponse  "no confirmed booking"
// @Router   /sessions/{id}/ticket [get]
func handleDownloadTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := svcs.Booking.Ticket(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="ticket.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	}
}

// @Summary  Share text for the ticket
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  ShareResponse
// @Failure  409  {object}  ErrorResponse  "no confirmed booking"
// @Router   /sessions/{id}/ticket/share [get]
func handleShareTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := svcs.Booking.ShareText(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ShareResponse{Text: text})
	}
}

// @Summary  Back to home, signed out
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/home [post]
func handleReturnHome(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Booking.ReturnHome(c.Request.Context(), c.Param("id"))
		respondView(c, view, err)
	}
}

// @Summary  Replace the stop and its buses
// @Param    req  body  domain.Location  true  "payload"
// @Success  204
// @Failure  400  {object}  ErrorResponse
// @Router   /admin/catalog/seed [post]
func handleSeedCatalog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Location
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Location.Seed(c.Request.Context(), req); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- Helpers ---

func respondView(c *gin.Context, view session.View, err error) {
	if err != nil {
		respondErrView(c, err, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func rateLimitKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
