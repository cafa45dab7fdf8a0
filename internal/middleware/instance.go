package middleware

import (
	"os"

	"github.com/danielgtaylor/huma/v2"
)

// InstanceHeader tags every response with the instance that handled it,
// which makes load-balanced deployments debuggable from the client side.
func InstanceHeader() func(ctx huma.Context, next func(huma.Context)) {
	instance, err := os.Hostname()
	if err != nil {
		instance = "unknown"
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		ctx.SetHeader("X-Backend-Instance", instance)

		next(ctx)
	}
}
