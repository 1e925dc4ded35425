// Package app wires the ytstats query server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Initialize the JSON logger from config.LoggingConfig
//	2. Initialize OpenTelemetry tracing and the Prometheus-backed meter
//	3. Load and clean the configured statistics file (fatal on failure)
//	4. Build the dataset and health services
//	5. Mount the middleware chain and HTTP handlers
//	6. Create the http.Server from config.ServerConfig
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests get ShutdownTimeout to finish, then telemetry is flushed and the
// log file closed. The app never calls os.Exit.
package app
