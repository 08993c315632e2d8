// Package state holds the four-state result shape that every operation
// reports to screens: idle, loading, success with a value, or error with the
// underlying message.
package state

import (
	"context"
	"encoding/json"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is one state of an operation. Data is only meaningful on success and
// Err only on error.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

func Idle[T any]() Result[T] {
	return Result[T]{Status: StatusIdle}
}

func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

func Success[T any](v T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: v}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// Terminal reports whether the result ends a one-shot operation.
func (r Result[T]) Terminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusError
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		Status Status `json:"status"`
		Data   any    `json:"data,omitempty"`
		Error  string `json:"error,omitempty"`
	}{Status: r.Status}

	switch r.Status {
	case StatusSuccess:
		out.Data = r.Data
	case StatusError:
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
	}
	return json.Marshal(out)
}

// Do runs fn and converts its return values into a terminal result.
func Do[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	v, err := fn(ctx)
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}
