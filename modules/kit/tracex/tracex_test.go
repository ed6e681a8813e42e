package tracex

import (
	"context"
	"testing"
)

func TestSpan_TraceID和SpanID互不覆盖(t *testing.T) {
	ctx := WithSpanID(WithTraceID(context.Background(), "t-1"), "battle")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 trace_id 保留, got=%q ok=%v", got, ok)
	}
	if got, ok := SpanIDFrom(ctx); !ok || got != "battle" {
		t.Fatalf("期望 span_id round-trip, got=%q ok=%v", got, ok)
	}
}

func TestSpan_空值视为不存在(t *testing.T) {
	if _, ok := TraceIDFrom(WithTraceID(context.Background(), "")); ok {
		t.Fatalf("期望空 trace_id 返回 ok=false")
	}
	if _, ok := SpanIDFrom(nil); ok {
		t.Fatalf("期望 nil ctx 返回 ok=false")
	}
}

func TestEnsure_已有trace不重新生成(t *testing.T) {
	ctx, id := Ensure(nil)
	if len(id) != 32 {
		t.Fatalf("期望 32 位 hex, got=%q", id)
	}
	if _, again := Ensure(ctx); again != id {
		t.Fatalf("期望沿用已有 trace_id, got=%q want=%q", again, id)
	}
}
