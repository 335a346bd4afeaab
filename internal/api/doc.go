// Package api handles incoming HTTP requests, request validation and response
// formatting for the task and health endpoints. It acts as an adapter between
// external clients and the services, translating HTTP concerns to task
// operations and service errors back to status codes and envelopes.
package api
