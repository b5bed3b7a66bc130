package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	roleKey      contextKey = "role"
)

// WithRequestID stores the correlation id for the request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithUser stores the authenticated user identity for logging.
func WithUser(ctx context.Context, userID, role string) context.Context {
	if userID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	if role != "" {
		ctx = context.WithValue(ctx, roleKey, role)
	}
	return ctx
}

func UserFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	userID, _ := ctx.Value(userIDKey).(string)
	role, _ := ctx.Value(roleKey).(string)
	return userID, role
}
