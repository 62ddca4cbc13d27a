package internal

import "context"

type ctxKeyCorrelationId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if correlationId, ok := ctx.Value(ctxKeyCorrelationId{}).(string); ok {
		return correlationId
	}
	return ""
}

// ContextFromEnvs attaches the pipeline correlation id (if any) so a child
// process logs with the same id as the orchestrator that launched it.
func ContextFromEnvs(ctx context.Context, envs map[string]string) context.Context {
	if correlationId := envs[EnvCorrelationId]; correlationId != "" {
		return CtxWithCorrelationId(ctx, correlationId)
	}
	return ctx
}
