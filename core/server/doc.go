// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the listening port, the API key protecting every
// route and the maximum size of an uploaded feed document.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command when building the Fiber application.
package server
