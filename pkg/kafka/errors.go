package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProducerClosed = errors.New("producer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
	ErrNoBrokers      = errors.New("no brokers configured")
)

// ErrorType classifies broker failures so callers can decide whether a
// publish is worth retrying.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeRetryable
	ErrorTypeNonRetryable
	ErrorTypeConfiguration
)

type KafkaError struct {
	Type    ErrorType
	Op      string
	Topic   string
	Err     error
	Message string
}

func (e *KafkaError) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("kafka %s on topic %q: %s", e.Op, e.Topic, e.Message)
	}
	return fmt.Sprintf("kafka %s: %s", e.Op, e.Message)
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func (e *KafkaError) IsRetryable() bool {
	return e.Type == ErrorTypeRetryable
}

func NewKafkaError(errType ErrorType, op, topic string, err error) *KafkaError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &KafkaError{
		Type:    errType,
		Op:      op,
		Topic:   topic,
		Err:     err,
		Message: msg,
	}
}

// ClassifyError maps a transport error onto an ErrorType. Connection-level
// failures are retryable; validation and configuration errors are not.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	switch {
	case errors.Is(err, ErrProducerClosed),
		errors.Is(err, ErrEmptyKey),
		errors.Is(err, ErrEmptyValue):
		return ErrorTypeNonRetryable
	case errors.Is(err, ErrNoBrokers):
		return ErrorTypeConfiguration
	}

	errStr := strings.ToLower(err.Error())
	retryable := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"timeout",
		"temporary failure",
		"leader not available",
		"not enough replicas",
	}
	for _, pattern := range retryable {
		if strings.Contains(errStr, pattern) {
			return ErrorTypeRetryable
		}
	}

	return ErrorTypeUnknown
}

// ShouldRetry reports whether a publish failure is worth another attempt.
// Unknown errors are retried; only definitively non-retryable ones are not.
func ShouldRetry(err error) bool {
	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.IsRetryable() || kafkaErr.Type == ErrorTypeUnknown
	}

	switch ClassifyError(err) {
	case ErrorTypeNonRetryable, ErrorTypeConfiguration:
		return false
	default:
		return true
	}
}
