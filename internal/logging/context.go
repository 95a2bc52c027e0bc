package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies the batch session that emitted the line.
	FieldRunID = "run_id"
	// FieldActor names the actor being converted or located.
	FieldActor = "actor"
	// FieldDLC is the DLC index; 0 is vanilla.
	FieldDLC = "dlc"
	// FieldOperation is the ck-cmd operation.
	FieldOperation = "operation"
	// FieldDataRoot is the data root being processed.
	FieldDataRoot = "data_root"
	// FieldError is the key used by Error.
	FieldError = "error"
)

type contextKey string

const (
	runIDKey     contextKey = "skymaya.run_id"
	actorKey     contextKey = "skymaya.actor"
	dlcKey       contextKey = "skymaya.dlc"
	operationKey contextKey = "skymaya.operation"
)

// WithRunID annotates ctx with the batch run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the batch run identifier, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(runIDKey).(string)
	return value, ok && value != ""
}

// WithActor annotates ctx with the actor currently being processed.
func WithActor(ctx context.Context, actor string) context.Context {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the actor, if present.
func ActorFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(actorKey).(string)
	return value, ok && value != ""
}

// WithDLC annotates ctx with the DLC index being processed.
func WithDLC(ctx context.Context, dlc int) context.Context {
	return context.WithValue(ctx, dlcKey, dlc)
}

// DLCFromContext extracts the DLC index, if present.
func DLCFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	value, ok := ctx.Value(dlcKey).(int)
	return value, ok
}

// WithOperation annotates ctx with the ck-cmd operation being executed.
func WithOperation(ctx context.Context, op string) context.Context {
	op = strings.TrimSpace(op)
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext extracts the operation, if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(operationKey).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if actor, ok := ActorFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldActor, actor))
	}
	if dlc, ok := DLCFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldDLC, dlc))
	}
	if op, ok := OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
