package httpgin

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/cinemago/internal/booking"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/service"
	"github.com/kirinyoku/cinemago/internal/service/admin"
	"github.com/kirinyoku/cinemago/internal/service/auth"
	"github.com/kirinyoku/cinemago/internal/service/catalog"
	"github.com/kirinyoku/cinemago/internal/service/limit"
	"github.com/kirinyoku/cinemago/internal/service/orders"
	"github.com/kirinyoku/cinemago/internal/service/reservation"
)

const (
	msgMissingCredentials = "Vui lòng nhập tài khoản và mật khẩu!"
	msgRateLimited        = "Bạn thao tác quá nhanh. Vui lòng thử lại sau!"
	msgHoldExpired        = "Đã hết thời gian giữ ghế. Vui lòng chọn ghế lại!"
	msgEmptySelection     = "Vui lòng chọn ghế trước khi đặt vé!"
	msgSeatBooked         = "Ghế đã có người đặt!"
	msgRequestInProgress  = "Yêu cầu đặt vé đang được xử lý!"
	msgIncompleteShowtime = "Vui lòng điền đầy đủ thông tin!"
	msgImageRequired      = "Vui lòng chọn hình ảnh phim!"
	msgNoSchedule         = "Phim chưa có lịch chiếu!"

	maxUploadBytes = 8 << 20
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/movies", handleListMovies(svcs))
	r.GET("/movies/:id", handleMovieDetail(svcs))
	r.GET("/showtimes/:id/seats", handleSeatMap(svcs))

	r.POST("/auth/login", handleLogin(svcs))
	r.POST("/auth/register", handleRegister(svcs))

	authed := r.Group("/", SessionMiddleware(svcs.Auth))
	{
		authed.POST("/auth/logout", handleLogout(svcs))
		authed.GET("/auth/me", handleMe(svcs))

		authed.POST("/showtimes/:id/holds", handleOpenHold(svcs))
		authed.GET("/holds/:id", handleGetHold(svcs))
		authed.POST("/holds/:id/seats/:seatId", handleToggleSeat(svcs))
		authed.DELETE("/holds/:id", handleCloseHold(svcs))
		authed.POST("/holds/:id/submit", handleSubmitHold(svcs))

		authed.GET("/orders/last", handleLastOrder(svcs))
		authed.GET("/orders/:code", handleGetOrder(svcs))
	}

	// Admin-API
	adm := r.Group("/admin", SessionMiddleware(svcs.Auth), AdminOnly())
	{
		adm.GET("/movies", handleAdminListMovies(svcs))
		adm.GET("/movies/:id", handleAdminGetMovie(svcs))
		adm.POST("/movies", handleAdminAddMovie(svcs))
		adm.PUT("/movies/:id", handleAdminUpdateMovie(svcs))
		adm.DELETE("/movies/:id", handleAdminDeleteMovie(svcs))

		adm.GET("/users", handleAdminListUsers(svcs))
		adm.POST("/users", handleAdminAddUser(svcs))
		adm.PUT("/users/:account", handleAdminUpdateUser(svcs))
		adm.DELETE("/users/:account", handleAdminDeleteUser(svcs))

		adm.POST("/showtimes", handleAdminCreateShowtime(svcs))
		adm.GET("/cinema-systems", handleAdminCinemaSystems(svcs))
		adm.GET("/cinema-systems/:id/clusters", handleAdminClusters(svcs))

		adm.GET("/audit", handleAdminAuditLog(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List movies
// @Success  200  {array}   domain.Movie
// @Failure  502  {object}  ErrorResponse
// @Router   /movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := svcs.Catalog.Movies(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, movies, cacheCatalog)
	}
}

// @Summary  Movie info with its showtime schedule
// @Param    id  path  int  true  "Movie ID"
// @Success  200  {object}  domain.MovieDetail
// @Failure  404  {object}  ErrorResponse
// @Router   /movies/{id} [get]
func handleMovieDetail(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Catalog.MovieDetail(c.Request.Context(), movieID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, d, cacheCatalog)
	}
}

// @Summary  Seat map of a showtime
// @Param    id  path  int  true  "Showtime ID"
// @Success  200  {object}  domain.SeatMap
// @Failure  404  {object}  ErrorResponse
// @Router   /showtimes/{id}/seats [get]
func handleSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sm, err := svcs.Catalog.SeatMap(c.Request.Context(), showtimeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, sm, cacheSeatMap)
	}
}

// @Summary  Log in
// @Param    req body  LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Failure  400 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}

		sess, err := svcs.Auth.Login(
			c.Request.Context(),
			strings.TrimSpace(req.Account),
			req.Password,
			c.ClientIP(),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID.String(), 0, "/", "", false, true)
		c.JSON(http.StatusOK, newLoginResponse(sess))
	}
}

// @Summary  Register a customer account
// @Param    req body  RegisterRequest true "account"
// @Success  201
// @Failure  400 {object} ErrorResponse
// @Router   /auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}

		u := domain.User{
			Account:  req.Account,
			Password: req.Password,
			Email:    req.Email,
			Phone:    req.Phone,
			FullName: req.FullName,
			Role:     domain.RoleCustomer,
		}
		if err := svcs.Auth.Register(c.Request.Context(), u, c.ClientIP()); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// @Summary  Log out
// @Success  204
// @Router   /auth/logout [post]
func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = svcs.Auth.Logout(c.Request.Context(), sessionFrom(c).ID)
		c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Current account profile
// @Success  200 {object} domain.User
// @Failure  401 {object} ErrorResponse
// @Router   /auth/me [get]
func handleMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Auth.Me(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// @Summary  Open a seat hold for a showtime
// @Param    id  path  int  true  "Showtime ID"
// @Success  201 {object} booking.HoldView
// @Failure  401 {object} ErrorResponse
// @Router   /showtimes/{id}/holds [post]
func handleOpenHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		v, err := svcs.Reservation.OpenHold(c.Request.Context(), sessionFrom(c), showtimeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

// @Summary  Get a hold with its countdown
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  200 {object} booking.HoldView
// @Failure  404 {object} ErrorResponse
// @Router   /holds/{id} [get]
func handleGetHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		v, err := svcs.Reservation.Hold(sessionFrom(c), holdID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Select or release a seat
// @Param    id      path  string  true  "Hold ID (uuid)"
// @Param    seatId  path  int     true  "Seat ID"
// @Success  200 {object} booking.HoldView
// @Failure  409 {object} ErrorResponse "seat booked / hold expired"
// @Router   /holds/{id}/seats/{seatId} [post]
func handleToggleSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		seatID, ok := parseInt64Param(c, "seatId")
		if !ok {
			return
		}
		v, err := svcs.Reservation.ToggleSeat(sessionFrom(c), holdID, seatID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Leave the seat selection
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  204
// @Router   /holds/{id} [delete]
func handleCloseHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Reservation.CloseHold(sessionFrom(c), holdID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Book the selected seats (idempotent)
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Param    Idempotency-Key header string false "client key"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Order
// @Failure  400 {object} ErrorResponse "empty selection"
// @Failure  409 {object} ErrorResponse "hold expired / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /holds/{id}/submit [post]
func handleSubmitHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		o, err := svcs.Reservation.Submit(
			c.Request.Context(),
			sessionFrom(c),
			holdID,
			idemKey,
			c.ClientIP(),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		if idemKey != "" {
			c.Header("Idempotency-Key", idemKey)
		}
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary  Last booking of the caller
// @Success  200 {object} domain.Order
// @Failure  404 {object} ErrorResponse
// @Router   /orders/last [get]
func handleLastOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svcs.Orders.Last(c.Request.Context(), sessionFrom(c).Account)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Booking by code
// @Param    code  path  string  true  "Order code"
// @Success  200 {object} domain.Order
// @Failure  404 {object} ErrorResponse
// @Router   /orders/{code} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svcs.Orders.Get(c.Request.Context(), sessionFrom(c).Account, c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		rl        *limit.Error
		protected admin.ProtectedAccountError
		apiErr    *cybersoft.APIError
	)

	switch {
	// rate limits
	case errors.As(err, &rl):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: msgRateLimited})
		return
	// auth service
	case errors.Is(err, auth.ErrMissingCredentials):
		badRequest(c, msgMissingCredentials)
		return
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrNoAccessToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: cybersoft.MsgUnauthorized})
		return
	// holds
	case errors.Is(err, booking.ErrHoldNotFound),
		errors.Is(err, booking.ErrHoldClosed),
		errors.Is(err, booking.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: cybersoft.MsgNotFound})
		return
	case errors.Is(err, booking.ErrHoldExpired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: msgHoldExpired})
		return
	case errors.Is(err, booking.ErrSeatBooked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: msgSeatBooked})
		return
	case errors.Is(err, booking.ErrEmptySelection):
		badRequest(c, msgEmptySelection)
		return
	// reservation service
	case errors.Is(err, reservation.ErrRequestInProgress):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, ErrorResponse{Error: msgRequestInProgress})
		return
	// orders service
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: cybersoft.MsgNotFound})
		return
	case errors.Is(err, orders.ErrInvalidOrder):
		badRequest(c, cybersoft.MsgInvalidData)
		return
	// catalog service
	case errors.Is(err, catalog.ErrNoSchedule):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNoSchedule})
		return
	// admin service
	case errors.As(err, &protected):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: protected.UserMessage()})
		return
	case errors.Is(err, admin.ErrIncompleteShowtime):
		badRequest(c, msgIncompleteShowtime)
		return
	case errors.Is(err, admin.ErrInvalidStartTime),
		errors.Is(err, admin.ErrInvalidMovie):
		badRequest(c, cybersoft.MsgInvalidData)
		return
	case errors.Is(err, cybersoft.ErrImageRequired):
		badRequest(c, msgImageRequired)
		return
	// upstream
	case errors.As(err, &apiErr):
		status := cybersoft.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, ErrorResponse{Error: cybersoft.UserMessage(err)})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: cybersoft.MsgUnknownError})
}
