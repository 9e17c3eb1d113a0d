package pgxenum

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var defaultDBAttributes = []attribute.KeyValue{
	attribute.String("db.system", "postgresql"),
}

// A Checker compares Go enum definitions with the enum types of a live database.
type Checker struct {
	tracer trace.Tracer
	l      logger.Logger
}

// NewChecker constructs a *Checker.
// A nil tracer records nothing; a nil l logs through log/slog's default logger.
func NewChecker(tracer trace.Tracer, l logger.Logger) *Checker {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pgxenum")
	}

	if l == nil {
		l = logger.New(nil)
	}

	return &Checker{tracer: tracer, l: l}
}

// Check diffs each of defs against the database q queries, one span per definition.
//
// Each failure is logged and then joined into the returned error,
// so a *pgenum.MismatchError can be pulled out with errors.As.
func (c *Checker) Check(ctx context.Context, q Querier, defs ...pgenum.Definition) error {
	var errs error
	for _, def := range defs {
		if def == nil {
			errs = errors.Join(errs, fmt.Errorf("%w: nil definition", pgenum.ErrMissingData))
			continue
		}

		attrs := append(
			defaultDBAttributes[:len(defaultDBAttributes):len(defaultDBAttributes)],
			attribute.String("method", "Check"),
			attribute.String("enum_type", def.Name()),
		)

		err := executeAndTrace(ctx, c.tracer, "pgxenum.check", attrs, func(ctx context.Context) error {
			labels, err := Labels(ctx, q, def.Name())
			if err != nil {
				return err
			}

			return def.Diff(labels)
		})
		if err != nil {
			c.l.Warn("enum type differs from its Go definition", &logger.LogContext{
				Data:  map[string]any{"enum_type": def.Name()},
				Error: err,
			})
			errs = errors.Join(errs, err)
			continue
		}

		c.l.Debug("enum type matches its Go definition", &logger.LogContext{
			Data: map[string]any{"enum_type": def.Name()},
		})
	}

	return errs
}

// CheckAll checks every definition in cat.
func (c *Checker) CheckAll(ctx context.Context, q Querier, cat *pgenum.Catalog) error {
	return c.Check(ctx, q, cat.All()...)
}

// executeAndTrace runs operation inside a span named spanName,
// recording any error it returns on the span.
func executeAndTrace(
	ctx context.Context,
	tracer trace.Tracer,
	spanName string,
	attributes []attribute.KeyValue,
	operation func(ctx context.Context) error,
) error {
	ctx, span := tracer.Start(
		ctx,
		spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attributes...),
	)
	defer span.End()

	if err := operation(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
