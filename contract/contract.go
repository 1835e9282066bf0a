//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Sink is the outbound side of one live connection. Push must be safe to
// call from any session's goroutine and must fail fast when the transport
// is gone rather than block.
type Sink interface {
	Push(payload []byte) error
}

// IRegistry indexes which users currently have a live, writable connection.
type IRegistry interface {
	Register(userID int64, sink Sink)
	Unregister(userID int64, sink Sink)
	TryDeliver(userID int64, payload []byte) bool
	Size() int
}
