// Package app wires the dashboard server together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and the logger (see internal/cli)
//	2. OpenTelemetry providers and the dashboard metrics are created
//	3. The dataset loader, chart renderer and services are constructed
//	4. The chi router is assembled with middleware and handlers
//	5. Start loads the dataset once, then serves HTTP
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, frontendFS)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns on SIGINT, SIGTERM, context cancellation or a listener
// failure. In each case the server is shut down within
// Server.ShutdownTimeout and the telemetry providers are flushed.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit.
package app
