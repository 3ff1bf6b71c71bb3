// Package controller contains HTTP middlewares and helper handlers used by the
// display server.
//
// Provided middlewares:
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithCORS: Lets browser tools on other origins read exported map data.
//
// Provided helpers:
//   - Pprof: Returns a ServeMux exposing net/http/pprof handlers under a prefix.
//   - StatusFor / WriteError: Map semantic error kinds to HTTP responses.
package controller
