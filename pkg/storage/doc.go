// Package storage provides storage implementations for task persistence.
//
// This package includes:
//   - GormStorage: a GORM-based implementation of core.Store
//   - Open: picks the SQLite or PostgreSQL driver from a DSN and configures
//     the connection pool
//
// The Store interface is defined in pkg/core and must be implemented
// by any custom storage backend.
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which provides OpenStorage() to create storage instances.
package storage
