// Package handlers contains the health checks and middleware shared by the
// roster endpoint.
//
// # Health Checks
//
// Checks are registered by name and run in parallel, each under its own
// timeout:
//
//	checker := handlers.NewCompositeHealthChecker("1.0")
//	checker.AddCheck("storage", handlers.NewPingCheck(store))
//
//	status := checker.Check(ctx)
//
// # Middleware
//
// WriteTokenAuth guards mutating requests with a shared token; reads stay
// open. RequestSizeLimit caps request bodies so a replacement cannot exceed
// the configured size. RateLimiter and CORS sit at the outer edge of the
// chain.
package handlers
