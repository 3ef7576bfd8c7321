package rsmq

import (
	"io"
	"log/slog"
)

const DefaultNamespace = "rsmq"

type Options struct {
	Namespace string
	// Realtime publishes the queue length on <ns>:rt:<qname> after every send.
	Realtime bool
	Logger   *slog.Logger
}

type Option func(*Options)

func WithNamespace(ns string) Option {
	return func(o *Options) { o.Namespace = ns }
}

func WithRealtime(enabled bool) Option {
	return func(o *Options) { o.Realtime = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{
		Namespace: DefaultNamespace,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
