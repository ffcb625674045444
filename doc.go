// Package insightidr provides a native Go client for the Rapid7 InsightIDR
// REST API.
//
// # Features
//
//   - Service-based architecture: one service per resource family
//   - Go 1.23+ iterators for pagination
//   - A single classified error type with a closed set of kinds
//   - Functional options for configuration
//   - Per-call timeout with guaranteed timer release
//
// # Quick Start
//
//	client, err := insightidr.NewClient(
//	    insightidr.WithBaseURL("https://us.api.insight.rapid7.com"),
//	    insightidr.WithAPIKey(apiKey),
//	    insightidr.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inv, err := client.Investigations.Get(ctx, "7e7b9a5b-...")
//
// # Error Handling
//
// Every non-success response is returned as *Error. Inspect Kind to decide
// what to do:
//
//	_, err := client.Alerts.Get(ctx, id)
//	if apiErr, ok := insightidr.AsError(err); ok {
//	    switch apiErr.Kind {
//	    case insightidr.KindAuth:
//	        // invalid or under-privileged API key
//	    case insightidr.KindRateLimit:
//	        // apiErr.RetryAfter holds the server hint when apiErr.HasRetryAfter is set
//	    case insightidr.KindGeneric:
//	        // apiErr.StatusCode is 0 when the call timed out
//	    }
//	}
//
// Connection failures and cancellation of the caller's context are returned
// unclassified and can be matched with errors.Is.
//
// # Pagination
//
//	for alert, err := range client.Alerts.All(ctx, &insightidr.ListAlertsOptions{
//	    Severities: []string{"CRITICAL"},
//	}) {
//	    // ...
//	}
//
//	// Or request a single window
//	page, err := client.Alerts.List(ctx, &insightidr.ListAlertsOptions{
//	    PageOptions: insightidr.PageOptions{Index: 0, Size: 20},
//	})
package insightidr
