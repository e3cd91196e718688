// Package api exposes study sessions over HTTP. Handlers decode and
// validate requests, call the card review service and map its errors to
// status codes. No handler holds state of its own.
package api
