package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Decorator carries the tracer, logger, and meter shared by the service
// decorators in each bounded context's observability adapter.
type Decorator struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Meter  metric.Meter
}

// Option configures a Decorator.
type Option func(*Decorator)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Decorator) { d.Logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(d *Decorator) { d.Tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(d *Decorator) { d.Meter = m }
}

// WithInstruments takes tracer, meter, and logger from the process instruments under one scope name.
func WithInstruments(instruments *Instruments, scope string) Option {
	return func(d *Decorator) {
		if instruments == nil {
			return
		}
		d.Logger = instruments.Logger
		d.Tracer = instruments.Tracer(scope)
		d.Meter = instruments.Meter(scope)
	}
}

// NewDecorator applies options over no-op defaults.
func NewDecorator(tracerName string, opts ...Option) Decorator {
	d := Decorator{}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if d.Tracer == nil {
		d.Tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Meter == nil {
		d.Meter = metricnoop.NewMeterProvider().Meter(tracerName)
	}
	return d
}

// Counter creates an Int64Counter, returning nil when the meter rejects it.
func (d Decorator) Counter(name, description string) metric.Int64Counter {
	counter, err := d.Meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil
	}
	return counter
}

// Add increments counter when it is configured.
func Add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

// HandleError records err on the span, logs it, and returns it unchanged.
func (d Decorator) HandleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	d.LogError(ctx, msg, err, attrs...)
	return err
}

func (d Decorator) LogInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.Logger == nil {
		return
	}
	d.Logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (d Decorator) LogError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if d.Logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	d.Logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
