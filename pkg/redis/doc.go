// Package redis connects to Redis with go-redis and provides IDCache, a
// shared TTL cache of external identifiers to shop ids.
//
// Redis is optional: Config.Enabled is false when REDIS_URL is empty and the
// service then uses the in-process LRU instead.
package redis
