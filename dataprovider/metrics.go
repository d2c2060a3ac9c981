package dataprovider

import (
	"context"
	"time"

	"github.com/kbukum/datakit/observability"
)

// WithMetrics wraps a DataProvider so every fetch operation records
// count, duration, row count, and errors on the given instruments.
// The name labels the provider in recorded metrics.
func WithMetrics(inner DataProvider, name string, metrics *observability.Metrics) DataProvider {
	return &metricsProvider{inner: inner, name: name, metrics: metrics}
}

type metricsProvider struct {
	inner   DataProvider
	name    string
	metrics *observability.Metrics
}

func (m *metricsProvider) FetchFirst(ctx context.Context, params FetchListParams) PageIterator {
	return &metricsIterator{inner: m.inner.FetchFirst(ctx, params), name: m.name, metrics: m.metrics}
}

func (m *metricsProvider) FetchByKeys(ctx context.Context, params FetchByKeysParams) (*FetchByKeysResult, error) {
	start := time.Now()
	res, err := m.inner.FetchByKeys(ctx, params)
	m.record(ctx, "fetchByKeys", start, err)
	if err == nil {
		m.metrics.RecordRows(ctx, m.name, "fetchByKeys", res.Results.Len())
	}
	return res, err
}

func (m *metricsProvider) FetchByOffset(ctx context.Context, params FetchByOffsetParams) (*FetchByOffsetResult, error) {
	start := time.Now()
	res, err := m.inner.FetchByOffset(ctx, params)
	m.record(ctx, "fetchByOffset", start, err)
	if err == nil {
		m.metrics.RecordRows(ctx, m.name, "fetchByOffset", len(res.Results))
	}
	return res, err
}

func (m *metricsProvider) ContainsKeys(ctx context.Context, params ContainsKeysParams) (*ContainsKeysResult, error) {
	start := time.Now()
	res, err := m.inner.ContainsKeys(ctx, params)
	m.record(ctx, "containsKeys", start, err)
	return res, err
}

func (m *metricsProvider) TotalSize(ctx context.Context) (int, error) {
	return m.inner.TotalSize(ctx)
}

func (m *metricsProvider) IsEmpty(ctx context.Context) (Emptiness, error) {
	return m.inner.IsEmpty(ctx)
}

func (m *metricsProvider) Capability(name string) any {
	return m.inner.Capability(name)
}

func (m *metricsProvider) record(ctx context.Context, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, op, m.name)
	}
	m.metrics.RecordFetch(ctx, m.name, op, status, time.Since(start))
}

type metricsIterator struct {
	inner   PageIterator
	name    string
	metrics *observability.Metrics
}

func (it *metricsIterator) Next(ctx context.Context) (Page, bool, error) {
	start := time.Now()
	page, ok, err := it.inner.Next(ctx)

	status := "ok"
	if err != nil {
		status = "error"
		it.metrics.RecordError(ctx, "fetchFirst", it.name)
	}
	it.metrics.RecordFetch(ctx, it.name, "fetchFirst", status, time.Since(start))
	if err == nil && ok {
		it.metrics.RecordRows(ctx, it.name, "fetchFirst", len(page.Items))
	}
	return page, ok, err
}

func (it *metricsIterator) Close() error { return it.inner.Close() }
