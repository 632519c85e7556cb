package singlekey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Polling defaults
const (
	DefaultWaitTimeout  = 5 * time.Minute
	DefaultPollInterval = 10 * time.Second
)

const (
	msgProcessing  = "Processing..."
	msgWaitTimeout = "Timeout waiting for report"
	msgWaitAborted = "Wait for report abandoned"
)

// StatusUpdate is emitted after every poll that found the report incomplete.
// RequestID is the X-Request-Id sent with that poll.
type StatusUpdate struct {
	PurchaseToken string
	RequestID     string
	Detail        string
	Attempt       int
	Elapsed       time.Duration
}

// StatusFunc receives status updates while waiting for a report
type StatusFunc func(StatusUpdate)

// WaitOptions configures WaitForReport
type WaitOptions struct {
	// Timeout bounds the whole wait. Zero means DefaultWaitTimeout.
	Timeout time.Duration
	// Interval is the pause between polls. Zero means DefaultPollInterval.
	Interval time.Duration
	// OnStatus is called synchronously between polls. Optional.
	OnStatus StatusFunc
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultWaitTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	return o
}

// WaitForReport polls GetReport until the report is complete or opts.Timeout
// elapses. Errors from GetReport end the wait immediately.
//
// Cancelling ctx abandons the wait right away. A report fetch that is already
// in flight is left to finish on its own; it is bounded by the request timeout.
func (c *Client) WaitForReport(ctx context.Context, purchaseToken string, opts WaitOptions) (Result, error) {
	opts = opts.withDefaults()
	fetch := func(ctx context.Context) (Result, error) {
		return c.GetReport(ctx, purchaseToken)
	}
	return c.poll(ctx, purchaseToken, fetch, opts)
}

type fetchResult struct {
	report Result
	err    error
}

func (c *Client) poll(ctx context.Context, purchaseToken string, fetch func(context.Context) (Result, error), opts WaitOptions) (Result, error) {
	start := time.Now()
	attempt := 0

	for time.Since(start) < opts.Timeout {
		attempt++
		requestID := uuid.NewString()

		report, err := c.fetchOnce(WithRequestID(ctx, requestID), fetch)
		if err != nil {
			return nil, err
		}

		if report.IsComplete() {
			c.logger.Debug().
				Str("purchase_token", purchaseToken).
				Str("request_id", requestID).
				Int("attempt", attempt).
				Dur("elapsed", time.Since(start)).
				Msg("Report complete")
			return report, nil
		}

		detail := report.Detail()
		if detail == "" {
			detail = msgProcessing
		}
		c.logger.Debug().
			Str("purchase_token", purchaseToken).
			Str("request_id", requestID).
			Int("attempt", attempt).
			Str("detail", detail).
			Msg("Report not ready")

		if opts.OnStatus != nil {
			opts.OnStatus(StatusUpdate{
				PurchaseToken: purchaseToken,
				RequestID:     requestID,
				Detail:        detail,
				Attempt:       attempt,
				Elapsed:       time.Since(start),
			})
		}

		if err := sleepContext(ctx, opts.Interval); err != nil {
			return nil, newServiceError(msgWaitAborted, err)
		}
	}

	return nil, newServiceError(msgWaitTimeout, nil)
}

// fetchOnce runs a single fetch detached from ctx's cancellation so that
// abandoning the wait does not cancel the request on the wire.
func (c *Client) fetchOnce(ctx context.Context, fetch func(context.Context) (Result, error)) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, newServiceError(msgWaitAborted, err)
	}

	done := make(chan fetchResult, 1)
	go func() {
		report, err := fetch(context.WithoutCancel(ctx))
		done <- fetchResult{report: report, err: err}
	}()

	select {
	case r := <-done:
		return r.report, r.err
	case <-ctx.Done():
		return nil, newServiceError(msgWaitAborted, ctx.Err())
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
