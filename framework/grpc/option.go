package grpcgate

import (
	"errors"

	tokengate "github.com/keyward/tokengate"
)

// Option configures an Interceptor.
type Option func(*Interceptor) error

// Option validation errors returned by New.
var (
	ErrGateNil           = errors.New("gate cannot be nil")
	ErrTokenExtractorNil = errors.New("token extractor cannot be nil")
	ErrErrorHandlerNil   = errors.New("error handler cannot be nil")
)

// WithTokenExtractor replaces the metadata token extractor.
//
// Default: MetadataTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(i *Interceptor) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		i.tokenExtractor = e
		return nil
	}
}

// WithErrorHandler replaces the rejection-to-status mapping.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(i *Interceptor) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		i.errorHandler = h
		return nil
	}
}

// WithExcludedMethods bypasses authentication for the given full
// method names (for example "/grpc.health.v1.Health/Check").
func WithExcludedMethods(methods []string) Option {
	return func(i *Interceptor) error {
		for _, m := range methods {
			i.excludedMethods[m] = true
		}
		return nil
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l tokengate.Logger) Option {
	return func(i *Interceptor) error {
		if l == nil {
			return tokengate.ErrLoggerNil
		}
		i.logger = l
		return nil
	}
}
