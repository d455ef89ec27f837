// Package httputil provides helpers shared by flametower's HTTP clients.
//
// [Retry] re-runs an operation with exponential backoff while it fails with
// a [RetryableError]. Clients wrap transient failures (connection errors,
// 5xx responses) with [Retryable] and return every other error as is:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
package httputil
