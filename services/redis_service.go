package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
)

// Cache key prefixes
const (
	cacheKeyFlights     = "flights:"
	cacheKeyWeather     = "weather:"
	cacheKeyPredictions = "predictions"
)

// CacheStats reports cache reachability and hit rates
type CacheStats struct {
	Enabled     bool    `json:"enabled"`
	Connected   bool    `json:"connected"`
	Keys        int     `json:"keys"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	UsedMemory  string  `json:"used_memory,omitempty"`
	UptimeHours float64 `json:"uptime_hours,omitempty"`
}

// InterfaceRedisService defines the cache operations
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheFlights(group string, flights interface{}) error
	GetFlights(group string, dest interface{}) error
	CacheWeather(airportCode string, weatherData interface{}) error
	GetWeather(airportCode string, dest interface{}) error
	CachePredictions(predictions interface{}) error
	GetPredictions(dest interface{}) error
	InvalidateFeeds() error
	Stats() *CacheStats
	Ping() error
}

// RedisService handles Redis cache operations. All operations degrade
// gracefully: when Redis is unreachable the service reports a miss and
// callers fall through to the upstream source.
type RedisService struct {
	Client  *redis.Client
	Ctx     context.Context
	ttl     time.Duration
	enabled bool
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	enabled := true
	if err := client.Ping(ctx).Err(); err != nil {
		config.Warning("Redis unavailable, caching disabled: %v", err)
		enabled = false
	}

	return &RedisService{
		Client:  client,
		Ctx:     ctx,
		ttl:     time.Duration(cfg.FeedCacheTTLSeconds) * time.Second,
		enabled: enabled,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	if !s.enabled {
		return redis.Nil
	}
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	if !s.enabled {
		return redis.Nil
	}
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	if !s.enabled {
		return nil
	}
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheFlights caches a flight feed result under its group name
// ("live", "arrivals", "departures")
func (s *RedisService) CacheFlights(group string, flights interface{}) error {
	return s.Set(cacheKeyFlights+group, flights, s.ttl)
}

// GetFlights gets a cached flight feed result
func (s *RedisService) GetFlights(group string, dest interface{}) error {
	return s.Get(cacheKeyFlights+group, dest)
}

// CacheWeather caches weather data for an airport
func (s *RedisService) CacheWeather(airportCode string, weatherData interface{}) error {
	return s.Set(cacheKeyWeather+airportCode, weatherData, s.ttl)
}

// GetWeather gets weather data from cache
func (s *RedisService) GetWeather(airportCode string, dest interface{}) error {
	return s.Get(cacheKeyWeather+airportCode, dest)
}

// CachePredictions caches the scored delay risk batch
func (s *RedisService) CachePredictions(predictions interface{}) error {
	return s.Set(cacheKeyPredictions, predictions, s.ttl)
}

// GetPredictions gets the cached delay risk batch
func (s *RedisService) GetPredictions(dest interface{}) error {
	return s.Get(cacheKeyPredictions, dest)
}

// InvalidateFeeds drops all cached feed entries
func (s *RedisService) InvalidateFeeds() error {
	if !s.enabled {
		return nil
	}
	for _, prefix := range []string{cacheKeyFlights, cacheKeyWeather, cacheKeyPredictions} {
		keys, err := s.Client.Keys(s.Ctx, prefix+"*").Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.Client.Del(s.Ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ping checks Redis connectivity
func (s *RedisService) Ping() error {
	return s.Client.Ping(s.Ctx).Err()
}

// Stats collects cache statistics from INFO
func (s *RedisService) Stats() *CacheStats {
	stats := &CacheStats{Enabled: s.enabled}
	if err := s.Ping(); err != nil {
		return stats
	}
	stats.Connected = true

	if n, err := s.Client.DBSize(s.Ctx).Result(); err == nil {
		stats.Keys = int(n)
	}

	info, err := s.Client.Info(s.Ctx, "stats", "memory", "server").Result()
	if err != nil {
		return stats
	}
	fields := parseRedisInfo(info)

	stats.Hits, _ = strconv.ParseInt(fields["keyspace_hits"], 10, 64)
	stats.Misses, _ = strconv.ParseInt(fields["keyspace_misses"], 10, 64)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = roundTo(float64(stats.Hits)/float64(total)*100, 1)
	}
	stats.UsedMemory = fields["used_memory_human"]
	if secs, err := strconv.ParseFloat(fields["uptime_in_seconds"], 64); err == nil {
		stats.UptimeHours = roundTo(secs/3600, 1)
	}

	return stats
}

func parseRedisInfo(info string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(info, "\r\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			fields[parts[0]] = parts[1]
		}
	}
	return fields
}
