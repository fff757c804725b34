// Package resilience groups the fault tolerance helpers used around outbound
// calls: the headline feed, the LLM providers and the remote cache.
//
// A typical call site combines both:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    entries, err = circuitbreaker.Run(cb, func() ([]headline.RawEntry, error) {
//	        return fetch(ctx, url)
//	    })
//	    return err
//	})
package resilience
