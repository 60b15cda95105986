// Package application provides application initialization and dependency wiring.
// It generates the item set, wraps the quantity engine in storage, and builds
// the handlers, routers and HTTP server, keeping the main package focused on
// CLI parsing and orchestration.
package application
