// Package services contains the application services of the sync client.
//
// AnimalService keeps the main feed: it pages through the remote API,
// merges each page into the local cache and exposes the cache as the only
// read stream. SearchPipeline turns typed queries and filter changes into a
// stream of SearchState values, preferring cached results and falling back
// to a remote search when the cache has nothing.
//
// Superseded work is cancelled, never reported: callers may see ErrCancelled
// from RequestMorePage and should ignore it.
package services
