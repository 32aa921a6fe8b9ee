// Package http contains the HTTP handlers of the analytics API.
//
// Handlers resolve the caller's session from its cookie, delegate to the
// analysis service, and render JSON with go-chi/render. All errors pass
// through the central error handler, which maps domain errors onto the
// API error taxonomy; an upload failure therefore produces exactly one
// structured error and leaves the session usable for the next upload.
package http
