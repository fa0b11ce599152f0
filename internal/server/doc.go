// Package server provides HTTP routing, middleware, and read-only playback diagnostics.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Debug Endpoints
//
// [DebugHandler] exposes a running session over three GET routes:
//   - /healthz reports service liveness
//   - /snapshot returns the engine loop's current [engine.Snapshot]
//   - /plan returns the active segment plan with per-track coverage flags
//
// Both state sources are read through the engine loop's reply-channel accessors,
// so handlers are safe to call from any number of request goroutines.
//
// # Current Usage
//
// When the user runs the serve command, an HTTP server starts on the configured
// address (localhost:7878 by default) alongside the playback session, and shuts
// down when the session ends.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
