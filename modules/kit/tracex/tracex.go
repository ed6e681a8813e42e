package tracex

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Span 一次请求在日志里的关联标识，trace 跨服务传递，span 标记当前处理方。
type Span struct {
	TraceID string
	SpanID  string
}

type spanKey struct{}

func from(ctx context.Context) Span {
	if ctx == nil {
		return Span{}
	}
	s, _ := ctx.Value(spanKey{}).(Span)
	return s
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	s := from(ctx)
	s.TraceID = traceID
	return context.WithValue(ctx, spanKey{}, s)
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	s := from(ctx)
	s.SpanID = spanID
	return context.WithValue(ctx, spanKey{}, s)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	id := from(ctx).TraceID
	return id, id != ""
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	id := from(ctx).SpanID
	return id, id != ""
}

// Ensure 没有 trace_id 时生成一个，返回新 context 和最终的 trace_id。
func Ensure(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id, ok := TraceIDFrom(ctx); ok {
		return ctx, id
	}
	id := NewTraceID()
	return WithTraceID(ctx, id), id
}

// NewTraceID 32 位小写 hex。
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
