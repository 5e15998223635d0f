// Package server exposes the conversion pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz      liveness probe, returns "ok"
//	POST /v1/parse     agenda text → agenda model (JSON)
//	POST /v1/diagram   agenda text → Mermaid or DOT text
//	POST /v1/image     agenda text → SVG or PNG bytes
//	GET  /metrics      Prometheus exposition, when a metrics handler is set
//
// The request body is the raw agenda markup, limited to 1 MiB. Options are
// query parameters named after pipeline.Options fields: format, engine,
// orientation and phrases. /v1/image always renders in-process with the
// embedded engine and rejects any other engine with INVALID_ENGINE, so a
// request never starts an external program.
//
// Errors are JSON objects with the error code and a message:
//
//	{"code": "INVALID_FORMAT", "error": "invalid format: \"gif\" ..."}
package server
