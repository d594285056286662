// Package server provides HTTP routing, middleware, and the JSON/SSE handlers
// for the record collection web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// [RecordHandler] serves the record CRUD API under /api/records, including the
// alphabetical bucket index the browsing UI is built around.
//
// [SyncHandler] streams collection sync progress as Server-Sent Events:
//  1. Client opens GET /api/sync
//  2. Handler builds a fresh engine and runs it in a goroutine
//  3. Progress channel snapshots stream as "progress" events
//  4. On completion (or a fatal precondition) a single "done" event is sent
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
