// Package cache provides an in-process LRU cache with per-entry TTL.
//
// The billing resolver uses it to remember which shop owns an external
// customer or subscription id, so that webhook bursts for the same customer
// do not hit Postgres for every delivery.
package cache
