package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-launchpad/internal/observability"
)

// queryTracer reports query latency and errors to Prometheus.
type queryTracer struct{}

type traceKey struct{}

type traceStart struct {
	at time.Time
	op string
}

func (queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{at: time.Now(), op: operation(data.SQL)})
}

func (queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	observability.RecordDBQuery("postgres", st.op, time.Since(st.at).Seconds(), data.Err)
}

// operation returns the lower-cased leading SQL keyword.
func operation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete", "with", "create", "alter":
		return op
	default:
		return "other"
	}
}

var _ pgx.QueryTracer = queryTracer{}
