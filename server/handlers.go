package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/s0up4200/moviefinder/logging"
)

// Response messages returned to API callers.
const (
	MessageRunning       = "Movie Finder API is running!"
	MessageTitleRequired = "Title parameter is required"
	MessageSearchFailed  = "Failed to search movies"
	MessageDetailsFailed = "Failed to fetch movie details"
)

const contentTypeJSON = "application/json; charset=utf-8"

// MovieSource is the upstream the handlers relay to. *omdb.Client satisfies it.
type MovieSource interface {
	SearchByTitle(ctx context.Context, title string) (json.RawMessage, error)
	GetByID(ctx context.Context, id string) (json.RawMessage, error)
}

// ErrorResponse is the body of every non-200 API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is the body of the root endpoint.
type StatusResponse struct {
	Message string `json:"message"`
}

// Handler serves the movie API.
type Handler struct {
	movies MovieSource
	logger zerolog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(movies MovieSource, logger zerolog.Logger) *Handler {
	return &Handler{
		movies: movies,
		logger: logger,
	}
}

// RegisterRoutes registers all routes. The API routes also answer with a
// trailing slash.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)

	api := r.Group("/api")
	{
		api.GET("/search", h.SearchMovies)
		api.GET("/search/", h.SearchMovies)
		api.GET("/movies/:id", h.GetMovieDetails)
		api.GET("/movies/:id/", h.GetMovieDetails)
	}
}

// Index reports that the service is up.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Message: MessageRunning})
}

// SearchMovies relays /api/search?title=... to an OMDb title search.
func (h *Handler) SearchMovies(c *gin.Context) {
	ctx := c.Request.Context()
	l := logging.Ctx(ctx, h.logger)

	title := c.Query("title")
	if verr := requireParam("title", title, MessageTitleRequired); verr != nil {
		l.Debug().Err(verr).Msg("rejected search request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message})
		return
	}

	body, err := h.movies.SearchByTitle(ctx, title)
	if err != nil {
		l.Error().Err(err).Str(logging.FieldTitle, title).Msg("Error searching movies")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   MessageSearchFailed,
			Message: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, contentTypeJSON, body)
}

// GetMovieDetails relays /api/movies/:id to an OMDb identifier lookup.
func (h *Handler) GetMovieDetails(c *gin.Context) {
	ctx := c.Request.Context()
	l := logging.Ctx(ctx, h.logger)

	id := c.Param("id")

	body, err := h.movies.GetByID(ctx, id)
	if err != nil {
		l.Error().Err(err).Str(logging.FieldID, id).Msg("Error fetching movie details")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   MessageDetailsFailed,
			Message: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, contentTypeJSON, body)
}
