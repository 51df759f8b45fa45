// Package fetch downloads the targets of song links so they can be
// attached to the library as local media.
//
// # Client
//
// Client wraps net/http with the ambient concerns a download needs:
// a configured User-Agent, a request timeout, and retry with
// exponential cooldown that honors context cancellation.
//
//	client := fetch.NewClient(settings.FetchMaxRetries, settings.FetchRetryCooldown)
//	local, err := client.Fetch(ctx, linkURL, folder.Documents())
//
// Fetch streams the response body straight to disk. The local file
// name is derived from the URL path, sanitized, and made unique with
// _1, _2, ... suffixes so repeated fetches never clobber earlier ones.
//
// # Progress Tracking
//
// Set Client.OnProgress to observe running byte counts during a
// download. ProgressWriter is the io.Writer wrapper behind it and can
// be reused for other streamed copies.
package fetch
