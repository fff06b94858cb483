// Package omdb provides a client for the OMDb movie-data API.
//
// The client forwards query parameters to a single OMDb endpoint and hands
// back the response body untouched. It does not model OMDb's payloads: a
// search result, a detail record and an OMDb-level "not found" response are
// all returned as the same opaque json.RawMessage.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := omdb.NewClient(apiKey, logger, omdb.WithTimeout(10*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	body, err := client.SearchByTitle(ctx, "Matrix")
//
// # Errors
//
// Every failure of an upstream call is reported as *UpstreamError. Its
// message is safe to show to API callers: transport errors are stripped of
// the request URL, which carries the API key.
//
//	var upErr *omdb.UpstreamError
//	if errors.As(err, &upErr) && upErr.IsUnauthorized() {
//		// bad or missing API key
//	}
package omdb
