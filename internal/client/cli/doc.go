// Package cli provides the interactive petsync developer client.
//
// It wires configuration, the local cache, the authenticated API client and
// the sync services, then runs a small REPL next to two background watchers:
// one printing the live feed, one printing search states.
//
// Commands:
//
//	more | m          fetch the next feed page
//	page N            fetch feed page N
//	search TEXT | s   set the search query (empty clears it)
//	age AGE           set the age filter (Baby, Young, Adult, Senior or empty)
//	type TYPE         set the type filter (empty clears it)
//	next              load the next remote search page
//	filters           list the types and ages present in the cache
//	stats             print client metrics
//	help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled.
package cli
