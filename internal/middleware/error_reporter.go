package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/middleware/requestid"
)

// ReportFunc forwards an error to an external tracker.
type ReportFunc func(err error, tags map[string]string)

// ErrorReporter forwards errors attached to server-error responses to report.
func ErrorReporter(report ReportFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if report == nil || c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		tags := map[string]string{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}
		if id := requestid.Value(c); id != "" {
			tags["request_id"] = id
		}
		for _, ginErr := range c.Errors {
			report(ginErr.Err, tags)
		}
	}
}
