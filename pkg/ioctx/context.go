package ioctx

import (
	"context"
	"io"
	"log/slog"
)

// Streams are the output writers a command reports to.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

type streamsKey struct{}

// WithStreams attaches s to ctx.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// StreamsFromContext returns the streams attached to ctx. Missing writers
// discard their output.
func StreamsFromContext(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)
	if s.Stdout == nil {
		s.Stdout = io.Discard
	}
	if s.Stderr == nil {
		s.Stderr = io.Discard
	}
	return s
}

func StdoutFromContext(ctx context.Context) io.Writer {
	return StreamsFromContext(ctx).Stdout
}

func StderrFromContext(ctx context.Context) io.Writer {
	return StreamsFromContext(ctx).Stderr
}

// Logger returns a text logger writing to the context's stderr, at debug
// level when debug is set.
func Logger(ctx context.Context, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(StderrFromContext(ctx), &slog.HandlerOptions{
		Level: level,
	}))
}
