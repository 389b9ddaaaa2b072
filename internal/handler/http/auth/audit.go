package auth

import (
	"net/http"

	"inkwell/internal/handler/http/middleware"
	"inkwell/internal/usecase/activity"
)

// Audit records an admin mutation with the actor and client of r.
// Failures are logged by activity.Service.Log and never reach the caller.
func Audit(r *http.Request, svc *activity.Service, action, resourceType string, resourceID *int64, details string) {
	svc.Log(r.Context(), activity.Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Actor:        Actor(r.Context()),
		IPAddress:    middleware.RequestIP(r),
		UserAgent:    r.UserAgent(),
	})
}
