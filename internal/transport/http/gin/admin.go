package httpgin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/service"
)

// Multipart field names accepted for movie uploads. They mirror the upstream form.
const (
	formMovieID     = "maPhim"
	formTitle       = "tenPhim"
	formTrailer     = "trailer"
	formDescription = "moTa"
	formReleaseDate = "ngayKhoiChieu"
	formNowShowing  = "dangChieu"
	formComingSoon  = "sapChieu"
	formHot         = "hot"
	formRating      = "danhGia"
	formGroup       = "maNhom"
	formImage       = "hinhAnh"
)

// @Summary  Admin: list movies
// @Success  200 {array} domain.Movie
// @Failure  403 {object} ErrorResponse
// @Router   /admin/movies [get]
func handleAdminListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := svcs.Admin.Movies(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, movies)
	}
}

// @Summary  Admin: get movie
// @Param    id  path  int  true  "Movie ID"
// @Success  200 {object} domain.Movie
// @Router   /admin/movies/{id} [get]
func handleAdminGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		m, err := svcs.Admin.Movie(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// @Summary  Admin: add movie with poster
// @Accept   multipart/form-data
// @Param    tenPhim  formData  string  true   "Title"
// @Param    hinhAnh  formData  file    true   "Poster"
// @Success  201
// @Failure  400 {object} ErrorResponse
// @Router   /admin/movies [post]
func handleAdminAddMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseMovieForm(c)
		if err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		if err := svcs.Admin.AddMovie(c.Request.Context(), sessionFrom(c), form); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// @Summary  Admin: update movie, poster optional
// @Accept   multipart/form-data
// @Param    id       path      int     true   "Movie ID"
// @Param    tenPhim  formData  string  true   "Title"
// @Param    hinhAnh  formData  file    false  "Poster"
// @Success  204
// @Router   /admin/movies/{id} [put]
func handleAdminUpdateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		form, err := parseMovieForm(c)
		if err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		form.ID = id
		if err := svcs.Admin.UpdateMovie(c.Request.Context(), sessionFrom(c), form); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Admin: delete movie
// @Param    id  path  int  true  "Movie ID"
// @Success  204
// @Router   /admin/movies/{id} [delete]
func handleAdminDeleteMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Admin.DeleteMovie(c.Request.Context(), sessionFrom(c), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Admin: list or search users
// @Param    keyword  query  string  false  "search keyword"
// @Success  200 {array} domain.User
// @Router   /admin/users [get]
func handleAdminListUsers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svcs.Admin.Users(c.Request.Context(), c.Query("keyword"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// @Summary  Admin: add user
// @Param    req body  UserRequest true "user"
// @Success  201
// @Router   /admin/users [post]
func handleAdminAddUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		if req.Password == "" {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		if err := svcs.Admin.AddUser(c.Request.Context(), sessionFrom(c), req.user()); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// @Summary  Admin: update user
// @Param    account  path  string       true  "Account"
// @Param    req      body  UserRequest  true  "user"
// @Success  204
// @Router   /admin/users/{account} [put]
func handleAdminUpdateUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		if req.Account != c.Param("account") {
			badRequest(c, "account mismatch")
			return
		}
		if err := svcs.Admin.UpdateUser(c.Request.Context(), sessionFrom(c), req.user()); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Admin: delete user
// @Param    account  path  string  true  "Account"
// @Success  204
// @Failure  403 {object} ErrorResponse "protected account"
// @Router   /admin/users/{account} [delete]
func handleAdminDeleteUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Admin.DeleteUser(c.Request.Context(), sessionFrom(c), c.Param("account")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Admin: create showtime
// @Param    req body  CreateShowtimeRequest true "showtime"
// @Success  201
// @Failure  400 {object} ErrorResponse
// @Router   /admin/showtimes [post]
func handleAdminCreateShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateShowtimeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, cybersoft.MsgInvalidData)
			return
		}
		st := domain.NewShowtime{
			MovieID:   req.MovieID,
			StartsAt:  req.StartsAt,
			ClusterID: req.ClusterID,
			Price:     req.Price,
		}
		if err := svcs.Admin.CreateShowtime(c.Request.Context(), sessionFrom(c), st); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// @Summary  Admin: cinema systems
// @Success  200 {array} domain.CinemaSystem
// @Router   /admin/cinema-systems [get]
func handleAdminCinemaSystems(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		systems, err := svcs.Catalog.CinemaSystems(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, systems)
	}
}

// @Summary  Admin: clusters of a cinema system
// @Param    id  path  string  true  "Cinema system ID"
// @Success  200 {array} domain.Cluster
// @Router   /admin/cinema-systems/{id}/clusters [get]
func handleAdminClusters(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		clusters, err := svcs.Catalog.Clusters(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, clusters)
	}
}

// @Summary  Admin: audit log
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "offset"
// @Success  200 {array} domain.AuditEntry
// @Router   /admin/audit [get]
func handleAdminAuditLog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 50)
		offset := parseIntDefault(c.Query("offset"), 0)
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		entries, err := svcs.Admin.AuditLog(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func parseMovieForm(c *gin.Context) (domain.MovieForm, error) {
	form := domain.MovieForm{
		Title:       strings.TrimSpace(c.PostForm(formTitle)),
		Trailer:     c.PostForm(formTrailer),
		Description: c.PostForm(formDescription),
		ReleaseDate: c.PostForm(formReleaseDate),
		NowShowing:  formBool(c.PostForm(formNowShowing)),
		ComingSoon:  formBool(c.PostForm(formComingSoon)),
		Hot:         formBool(c.PostForm(formHot)),
		Group:       c.PostForm(formGroup),
	}

	if v := c.PostForm(formMovieID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return form, fmt.Errorf("%s: %w", formMovieID, err)
		}
		form.ID = id
	}
	if v := c.PostForm(formRating); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return form, fmt.Errorf("%s: %w", formRating, err)
		}
		form.Rating = r
	}

	fh, err := c.FormFile(formImage)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return form, err
	}
	if fh.Size > maxUploadBytes {
		return form, fmt.Errorf("%s: too large", formImage)
	}

	f, err := fh.Open()
	if err != nil {
		return form, err
	}
	defer f.Close()

	form.Image, err = io.ReadAll(f)
	if err != nil {
		return form, err
	}
	form.ImageName = fh.Filename

	return form, nil
}

func formBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b || v == "on"
}
