package container

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services"
)

// ServiceContainer manages dependency injection for all services
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// Storage services
	redisService   services.InterfaceRedisService
	historyService services.InterfaceHistoryService
	archiveService services.InterfaceArchiveService

	// Feed services
	weatherService services.InterfaceWeatherService
	openSkyService services.InterfaceOpenSkyService
	radarService   services.InterfaceRadarService
	boardService   services.InterfaceBoardService

	// Business services
	aggregatorService services.InterfaceAggregatorService
	predictorService  services.InterfacePredictorService
	airportService    services.InterfaceAirportService

	// Operational services
	operationsService services.InterfaceOperationsService
	backupService     services.InterfaceBackupService
	healthService     services.InterfaceHealthService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("configuration is nil")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Storage services
	c.redisService = services.NewRedisService(c.config)
	c.historyService = services.NewHistoryService(c.db, c.config)

	archiveService, err := services.NewArchiveService(c.config)
	if err != nil {
		log.Fatalf("failed to initialize archive: %v", err)
	}
	c.archiveService = archiveService

	// Operational services
	operationsService, err := services.NewOperationsService(c.config)
	if err != nil {
		log.Fatalf("failed to initialize operations log: %v", err)
	}
	c.operationsService = operationsService

	backupService, err := services.NewBackupService(c.db, c.config, c.operationsService)
	if err != nil {
		log.Fatalf("failed to initialize backup manager: %v", err)
	}
	c.backupService = backupService

	// Feed services
	c.weatherService = services.NewWeatherService(c.config)
	c.openSkyService = services.NewOpenSkyService(c.config)
	c.radarService = services.NewRadarService(c.config)
	c.boardService = services.NewBoardService(c.config)

	// Business services
	c.aggregatorService = services.NewAggregatorService(
		c.radarService,
		c.openSkyService,
		c.boardService,
		c.weatherService,
		c.historyService,
		c.archiveService,
		c.redisService,
		c.operationsService,
		c.config,
	)
	c.predictorService = services.NewPredictorService()
	c.airportService = services.NewAirportService(c.db, c.config)

	c.healthService = services.NewHealthService(
		c.db, c.redisService, c.backupService, c.operationsService, c.config)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "redis":
		return c.redisService
	case "history":
		return c.historyService
	case "archive":
		return c.archiveService
	case "weather":
		return c.weatherService
	case "opensky":
		return c.openSkyService
	case "radar":
		return c.radarService
	case "board":
		return c.boardService
	case "aggregator":
		return c.aggregatorService
	case "predictor":
		return c.predictorService
	case "airport":
		return c.airportService
	case "operations":
		return c.operationsService
	case "backup":
		return c.backupService
	case "health":
		return c.healthService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig returns the loaded configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetRedisService returns the cache service
func (c *ServiceContainer) GetRedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}

// GetHistoryService returns the flight history service
func (c *ServiceContainer) GetHistoryService() services.InterfaceHistoryService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyService
}

// GetArchiveService returns the file archive service
func (c *ServiceContainer) GetArchiveService() services.InterfaceArchiveService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.archiveService
}

// GetWeatherService returns the weather feed service
func (c *ServiceContainer) GetWeatherService() services.InterfaceWeatherService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.weatherService
}

// GetOpenSkyService returns the OpenSky feed service
func (c *ServiceContainer) GetOpenSkyService() services.InterfaceOpenSkyService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.openSkyService
}

// GetRadarService returns the Flightradar24 feed service
func (c *ServiceContainer) GetRadarService() services.InterfaceRadarService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.radarService
}

// GetBoardService returns the airport board feed service
func (c *ServiceContainer) GetBoardService() services.InterfaceBoardService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boardService
}

// GetAggregatorService returns the feed aggregator service
func (c *ServiceContainer) GetAggregatorService() services.InterfaceAggregatorService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aggregatorService
}

// GetPredictorService returns the delay predictor service
func (c *ServiceContainer) GetPredictorService() services.InterfacePredictorService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.predictorService
}

// GetAirportService returns the airport info service
func (c *ServiceContainer) GetAirportService() services.InterfaceAirportService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.airportService
}

// GetOperationsService returns the operations log service
func (c *ServiceContainer) GetOperationsService() services.InterfaceOperationsService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operationsService
}

// GetBackupService returns the backup manager service
func (c *ServiceContainer) GetBackupService() services.InterfaceBackupService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backupService
}

// GetHealthService returns the health monitor service
func (c *ServiceContainer) GetHealthService() services.InterfaceHealthService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthService
}
