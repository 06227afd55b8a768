package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/locallibrary/catalog/internal/database"
)

// HTTPError carries the status and message the error page shows.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func errNotFound(what string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: what + " not found"}
}

// fail hands err to the error responder and stops the handler chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// failLookup reports a missing record as 404 and anything else as 500.
func failLookup(c *gin.Context, what string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		fail(c, &HTTPError{Status: http.StatusNotFound, Message: what + " not found", Err: err})
		return
	}
	fail(c, fmt.Errorf("load %s: %w", what, err))
}

// statusAndMessage maps an error to the response status and the message
// safe to show to every visitor.
func statusAndMessage(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Message
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// ErrorResponder renders the "error" view for the last error a handler
// recorded. The underlying error text is included only when showDetail is set.
func ErrorResponder(showDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := statusAndMessage(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Internal error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
		}

		data := gin.H{
			"Title":   message,
			"Status":  status,
			"Message": message,
		}
		if showDetail {
			data["Detail"] = err.Error()
		}
		render(c, status, "error", data)
	}
}

// notFoundHandler is the fallback for unmatched paths.
func notFoundHandler(c *gin.Context) {
	fail(c, &HTTPError{Status: http.StatusNotFound, Message: "Not Found"})
}
