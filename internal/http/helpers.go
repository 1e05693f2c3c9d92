package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondValidationError sends a 400 response listing the missing fields.
func respondValidationError(c *gin.Context, fields []string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "missing required fields",
		Code:    "validation_failed",
		Details: fields,
	})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message, Code: "conflict"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- HTML Helpers ---

// renderNotFound renders the HTML not-found page.
func renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "not_found", gin.H{"Message": message})
}

// redirectHome sends the browser back to the book list after a form post.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
