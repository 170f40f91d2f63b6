// Package httputil provides retry infrastructure for platform API clients.
//
// # Overview
//
// Every uploader funnels its network work through this package:
//
//   - [Retry]: bounded, sequential retry of soft errors
//   - [Execute]: bounded repair loop where each attempt returns a [Step]
//
// # Retry
//
// [Retry] calls a function until it succeeds, fails with an error the
// [Policy] does not consider recoverable, or runs out of attempts. A policy
// without a classifier retries every error. Platform uploads set
// [IsRetryable] so that only errors wrapped with [RetryableError] are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay between attempts is fixed. There is no exponential backoff and no
// jitter; the attempt count and delay come from the publish request.
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 3, Delay: 5 * time.Second, Recoverable: httputil.IsRetryable}, func() error {
//	    return upload(ctx)
//	})
//
// # Repair loops
//
// Some platform errors can be fixed by changing the request: dropping an
// unknown dependency or switching to another set of version ids. [Execute]
// models this explicitly. The action returns [Done], [Fatal], or
// [Repairable] with the payload for the next attempt:
//
//	file, err := httputil.Execute(ctx, policy, submission, func(ctx context.Context, s Submission) httputil.Step[Submission, *File] {
//	    f, err := post(ctx, s)
//	    if err == nil {
//	        return httputil.Done[Submission](f)
//	    }
//	    if next, ok := repair(s, err); ok {
//	        return httputil.Repairable[Submission, *File](next, err)
//	    }
//	    return httputil.Fatal[Submission, *File](err)
//	})
package httputil
