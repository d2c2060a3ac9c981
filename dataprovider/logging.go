package dataprovider

import (
	"context"
	"time"

	"github.com/kbukum/datakit/logger"
)

// WithLogging wraps a DataProvider so every fetch operation is logged
// with its duration and outcome.
func WithLogging(inner DataProvider, log *logger.Logger) DataProvider {
	if log == nil {
		log = logger.WithComponent("dataprovider")
	}
	return &loggingProvider{inner: inner, log: log}
}

type loggingProvider struct {
	inner DataProvider
	log   *logger.Logger
}

func (l *loggingProvider) FetchFirst(ctx context.Context, params FetchListParams) PageIterator {
	l.log.Debug("fetch first started", logger.Fields(
		logger.FieldOperation, "fetchFirst",
		logger.FieldSize, params.Size,
		logger.FieldClientID, params.ClientID,
	))
	return &loggingIterator{inner: l.inner.FetchFirst(ctx, params), log: l.log}
}

func (l *loggingProvider) FetchByKeys(ctx context.Context, params FetchByKeysParams) (*FetchByKeysResult, error) {
	start := time.Now()
	res, err := l.inner.FetchByKeys(ctx, params)
	l.logOutcome("fetchByKeys", logger.Fields(logger.FieldKeys, len(params.Keys)), start, err)
	return res, err
}

func (l *loggingProvider) FetchByOffset(ctx context.Context, params FetchByOffsetParams) (*FetchByOffsetResult, error) {
	start := time.Now()
	res, err := l.inner.FetchByOffset(ctx, params)
	l.logOutcome("fetchByOffset", logger.Fields(
		logger.FieldOffset, params.Offset,
		logger.FieldSize, params.Size,
	), start, err)
	return res, err
}

func (l *loggingProvider) ContainsKeys(ctx context.Context, params ContainsKeysParams) (*ContainsKeysResult, error) {
	start := time.Now()
	res, err := l.inner.ContainsKeys(ctx, params)
	l.logOutcome("containsKeys", logger.Fields(logger.FieldKeys, len(params.Keys)), start, err)
	return res, err
}

func (l *loggingProvider) TotalSize(ctx context.Context) (int, error) {
	return l.inner.TotalSize(ctx)
}

func (l *loggingProvider) IsEmpty(ctx context.Context) (Emptiness, error) {
	return l.inner.IsEmpty(ctx)
}

func (l *loggingProvider) Capability(name string) any {
	return l.inner.Capability(name)
}

func (l *loggingProvider) logOutcome(op string, fields map[string]interface{}, start time.Time, err error) {
	fields[logger.FieldOperation] = op
	fields[logger.FieldDuration] = time.Since(start).Milliseconds()
	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.Error("fetch failed", fields)
		return
	}
	l.log.Debug("fetch ok", fields)
}

type loggingIterator struct {
	inner PageIterator
	log   *logger.Logger
	pages int
}

func (it *loggingIterator) Next(ctx context.Context) (Page, bool, error) {
	start := time.Now()
	page, ok, err := it.inner.Next(ctx)
	if err != nil {
		it.log.Error("page fetch failed", logger.ErrorFields("fetchFirst.next", err))
		return page, ok, err
	}
	if ok {
		it.pages++
		it.log.Debug("page fetched", logger.Fields(
			logger.FieldOperation, "fetchFirst.next",
			logger.FieldRows, len(page.Items),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
	return page, ok, err
}

func (it *loggingIterator) Close() error { return it.inner.Close() }
