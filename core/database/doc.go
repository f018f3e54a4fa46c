// Package database handles the job ledger database connection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect selects the dialector from Config.Driver. MySQL connections get
// connect/read/write timeouts in the DSN and a pooled sql.DB; SQLite is limited
// to one open connection so the scheduler and HTTP handlers never contend on writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
