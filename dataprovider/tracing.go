package dataprovider

import (
	"context"

	"github.com/kbukum/datakit/observability"
)

// WithTracing wraps a DataProvider so every fetch operation runs inside
// an OpenTelemetry span named "{serviceName}.{operation}".
func WithTracing(inner DataProvider, serviceName string) DataProvider {
	return &tracingProvider{inner: inner, serviceName: serviceName}
}

type tracingProvider struct {
	inner       DataProvider
	serviceName string
}

func (t *tracingProvider) FetchFirst(ctx context.Context, params FetchListParams) PageIterator {
	return &tracingIterator{inner: t.inner.FetchFirst(ctx, params), serviceName: t.serviceName}
}

func (t *tracingProvider) FetchByKeys(ctx context.Context, params FetchByKeysParams) (*FetchByKeysResult, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+observability.SpanFetchByKeys)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrKeyCount, len(params.Keys))

	res, err := t.inner.FetchByKeys(ctx, params)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrRowCount, res.Results.Len())
	return res, nil
}

func (t *tracingProvider) FetchByOffset(ctx context.Context, params FetchByOffsetParams) (*FetchByOffsetResult, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+observability.SpanFetchByOffset)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrOffset, params.Offset)
	observability.SetSpanAttribute(ctx, observability.AttrPageSize, params.Size)

	res, err := t.inner.FetchByOffset(ctx, params)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrRowCount, len(res.Results))
	return res, nil
}

func (t *tracingProvider) ContainsKeys(ctx context.Context, params ContainsKeysParams) (*ContainsKeysResult, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+observability.SpanContainsKeys)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrKeyCount, len(params.Keys))

	res, err := t.inner.ContainsKeys(ctx, params)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return res, err
}

func (t *tracingProvider) TotalSize(ctx context.Context) (int, error) {
	return t.inner.TotalSize(ctx)
}

func (t *tracingProvider) IsEmpty(ctx context.Context) (Emptiness, error) {
	return t.inner.IsEmpty(ctx)
}

func (t *tracingProvider) Capability(name string) any {
	return t.inner.Capability(name)
}

type tracingIterator struct {
	inner       PageIterator
	serviceName string
}

func (it *tracingIterator) Next(ctx context.Context) (Page, bool, error) {
	ctx, span := observability.StartSpan(ctx, it.serviceName+"."+observability.SpanFetchFirst)
	defer span.End()

	page, ok, err := it.inner.Next(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return page, ok, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrRowCount, len(page.Items))
	return page, ok, err
}

func (it *tracingIterator) Close() error { return it.inner.Close() }
