package api

import (
	"context"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader request ID header returned to the caller
const requestIDHeader = "X-Request-ID"

// requestContext attach the request parameters to the request context, so
// components can tag their logs with them. A caller supplied request ID is kept
// only when it is a UUID.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		if supplied, err := uuid.Parse(c.GetHeader(requestIDHeader)); err == nil {
			requestID = supplied.String()
		}
		c.Header(requestIDHeader, requestID)

		params := goutils.RestRequestParam{
			ID:         requestID,
			Host:       c.Request.Host,
			URI:        c.Request.URL.String(),
			Method:     c.Request.Method,
			Referer:    c.Request.Referer(),
			RemoteAddr: c.Request.RemoteAddr,
			Proto:      c.Request.Proto,
			ProtoMajor: c.Request.ProtoMajor,
			ProtoMinor: c.Request.ProtoMinor,
			Timestamp:  time.Now(),
		}
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), goutils.RestRequestParamKey{}, params),
		)
		c.Next()
	}
}

// requestLogger log each request once it completes. Bodies are never logged.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.
			WithFields(log.Fields{
				"module":     "api",
				"method":     c.Request.Method,
				"path":       c.FullPath(),
				"status":     c.Writer.Status(),
				"latency":    time.Since(start).String(),
				"request_id": c.Writer.Header().Get(requestIDHeader),
			}).
			Debug("Request complete")
	}
}
