// Package service holds the application's use-case layer. It sits
// between the HTTP handlers and the store: handlers translate requests
// into service calls, the service enforces lifecycle rules and emits
// events for background execution.
package service
