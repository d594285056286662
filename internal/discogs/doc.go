// package discogs implements the outbound client for the Discogs REST API.
//
// All requests go through one [Client], which owns a [RateLimiter] for its
// lifetime. Construct exactly one client per logical operation (one sync run,
// one HTTP request) and thread it through explicitly. Creating a fresh client
// per item resets the limiter state and defeats the rate budget.
//
// https://www.discogs.com/developers
package discogs
