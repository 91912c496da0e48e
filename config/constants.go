package config

import "time"

const (
	// DefaultQueryTimeout bounds individual data-store reads and writes.
	DefaultQueryTimeout = 10 * time.Second

	// CatalogCacheSize bounds the per-filter catalog cache. One entry per
	// distinct game filter plus the unfiltered set; generous headroom.
	CatalogCacheSize = 16
)
