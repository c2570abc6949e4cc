package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondProviderError maps provider failures onto status codes: missing
// novels and providers are 404, failed remote loads are 502.
func respondProviderError(c *gin.Context, err error, context string) {
	var loadErr *scrape.LoadError
	switch {
	case errors.Is(err, providers.ErrUnknownProvider):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "unknown_provider"})
	case errors.Is(err, providers.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.As(err, &loadErr):
		log.Printf("Upstream error (%s): %v", context, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "failed to load " + loadErr.URL,
			Code:    "load_failed",
			Details: gin.H{"status_code": loadErr.StatusCode},
		})
	case errors.Is(err, scrape.ErrLoadFailed):
		log.Printf("Upstream error (%s): %v", context, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream load failed", Code: "load_failed"})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseRequiredQuery returns a non-empty query parameter or responds with 400.
func parseRequiredQuery(c *gin.Context, paramName string) (string, bool) {
	value := c.Query(paramName)
	if value == "" {
		respondBadRequest(c, paramName+" is required")
		return "", false
	}
	return value, true
}

// parseOptionalInt parses an optional non-negative integer query parameter.
// present is false when the parameter is absent. On a malformed value it
// responds with 400 and ok is false.
func parseOptionalInt(c *gin.Context, paramName string) (value int, present bool, ok bool) {
	raw := c.Query(paramName)
	if raw == "" {
		return 0, false, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false, false
	}
	return n, true, true
}
