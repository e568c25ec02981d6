package app

import (
	"lungscreen/internal/cache"
	"lungscreen/internal/repository"
)

// App bundles the storage dependencies shared across services
type App struct {
	ReportRepo   repository.ReportRepo
	SessionStore cache.SessionStore
	StatsCache   cache.StatsCache
}
