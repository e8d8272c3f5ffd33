// Package http implements the REST transport of the catalog API.
//
// It wires the chi router, resolves the caller from the bearer token,
// decodes requests, renders the pagination envelope and maps service errors
// to status codes. Permission decisions are left to the service layer.
package http
