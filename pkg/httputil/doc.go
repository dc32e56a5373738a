// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error responses,
// parameter parsing, and common HTTP middleware patterns.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteSuccess(w, metrics)
//	httputil.WriteCreated(w, resource)
//	httputil.WriteJSON(w, http.StatusAccepted, data)
//
// Error responses (all share the ErrorResponse JSON shape):
//
//	httputil.WriteError(w, http.StatusBadRequest, err)
//	httputil.WriteBadRequest(w, "Invalid input")
//	httputil.WriteNotFoundError(w, "route not found")
//	httputil.WriteInternalError(w, err)
//
// # Request Parsing
//
// JSON parsing:
//
//	var req RecordSaleRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// Path parameters:
//
//	userID, ok := httputil.ParsePathStringOrError(w, r, "user_id")
//
// Query parameters:
//
//	days, err := httputil.ParseQueryInt(r, "days", 30)
//	mode := httputil.ParseQueryString(r, "by", "users")
//	pretty, err := httputil.ParseQueryBool(r, "pretty", false)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RecoveryMiddleware,
//		httputil.ContentTypeMiddleware,
//		httputil.MaxBytesMiddleware(1*1024*1024), // 1MB
//	)
//
// # Related Packages
//
//   - pkg/api: Analytics HTTP handlers built on these helpers
package httputil
