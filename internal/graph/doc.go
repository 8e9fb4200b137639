// Package graph is a small Microsoft Graph client covering the calls the identity sync needs:
// listing tenant users, creating and patching accounts, setting managers, assigning
// licences and reading subscribed SKU inventory.
//
// Calls authenticate with the OAuth2 client credentials flow. Every request passes through
// a rate limiter and a circuit breaker; only transport failures and 5xx responses count
// against the breaker.
package graph
