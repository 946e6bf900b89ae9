// Package tenant holds the shop (tenant) record and its persistence.
//
// Billing fields of a shop are only written through Store.ApplyBilling, a
// single conditional update that enforces event ordering (BillingUpdate.SyncedAt)
// and allowed source statuses (BillingUpdate.AllowedFrom). PostgresStore does
// this in one UPDATE ... RETURNING statement; MemoryStore reproduces the same
// rules under a mutex.
//
// CachedStore adds a LookupCache in front of the external-id lookups. Use
// MemoryLookup for a single instance or redis.IDCache when instances share
// state.
package tenant
