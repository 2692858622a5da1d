package orderstore

import "embed"

// Schema holds the bootstrap SQL for integration tests and local development.
//
//go:embed schema.sql
var Schema string

// Migrations holds the versioned SQL applied at service start.
//
//go:embed migrations/*.sql
var Migrations embed.FS
