// Package castwave is the official Go client for the Castwave podcast
// hosting API.
//
// A Client is built from explicit options, the environment, or both:
//
//	client, err := castwave.New(
//		castwave.WithAPIKey("cw_live_..."),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	episode, err := client.Episodes.Get(ctx, "ep_123")
//
// Operations can also run against a context-bound client, which keeps
// per-tenant clients out of function signatures:
//
//	episodes, resp, err := castwave.RunScoped(ctx, client,
//		func(ctx context.Context) ([]*castwave.Episode, error) {
//			var svc castwave.EpisodeService
//			return svc.List(ctx, map[string]any{"podcast_id": "pod_42"})
//		})
//
// Transport failures (timeouts, refused or reset connections) are retried
// with exponential backoff and jitter; HTTP error responses are classified
// into typed errors (AuthenticationError, InvalidRequestError,
// RateLimitError, ...) and never retried. Match on the concrete types with
// errors.As, or on the stable code strings via the Code method.
package castwave
