package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/expense_management_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathPrefixesToSkip are never tracked by PostHog.
var pathPrefixesToSkip = []string{"/health", "/swagger"}

// PosthogMiddleware creates a Gin middleware handler that records one event
// per successful authenticated API call.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || skipTracking(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/manager/approve-expense/:id" -> "api_v1_manager_approve-expense_:id"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent sends a named workflow event, e.g. "expense_approved", for the calling user.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path
	posthogClient.Enqueue(userID, eventName, properties)
}

func skipTracking(path string) bool {
	for _, prefix := range pathPrefixesToSkip {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
