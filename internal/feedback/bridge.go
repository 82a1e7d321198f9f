// Package feedback turns mutation outcomes into user notifications: one
// loading notice when a mutation starts and exactly one terminal notice when
// it ends, whatever way it ends.
package feedback

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// Kind classifies a notification.
type Kind string

const (
	KindLoading    Kind = "loading"
	KindSuccess    Kind = "success"
	KindValidation Kind = "validation"
	KindError      Kind = "error"
)

// Terminal reports whether k closes a mutation.
func (k Kind) Terminal() bool { return k != KindLoading }

// Notification is one user-facing notice. The loading notice and the
// terminal notice of a run share an ID so a UI can replace one with the
// other.
type Notification struct {
	ID      string
	Kind    Kind
	Message string
	// Fields carries per-field messages for KindValidation.
	Fields map[string][]string
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) { f(n) }

// Default messages used when the server supplies none.
const (
	MsgLoading = "Working..."
	MsgFailed  = "Something went wrong, please try again"
)

// Bridge emits notifications for mutations run through Run.
type Bridge struct {
	Sink Sink
	// Loading overrides MsgLoading.
	Loading string
}

// Run executes op, reporting to b's sink. op may fail at the transport level
// (err) or return an unsuccessful envelope; both end in an error or
// validation notice. A panic in op is recovered, reported and returned as an
// error.
func Run[T any](ctx context.Context, b *Bridge, op func(context.Context) (domain.Result[T], error)) (res domain.Result[T], err error) {
	id := uuid.NewString()
	b.emit(Notification{ID: id, Kind: KindLoading, Message: b.loading()})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("feedback: mutation panicked: %v", r)
			res = domain.Result[T]{Status: domain.ActionError, Message: MsgFailed, Err: err}
		}
		b.emit(terminal(id, res, err))
	}()

	res, err = op(ctx)
	return res, err
}

func terminal[T any](id string, res domain.Result[T], err error) Notification {
	n := Notification{ID: id, Message: res.Message}
	switch {
	case err != nil:
		n.Kind = KindError
		if n.Message == "" {
			n.Message = err.Error()
		}
	case res.Status == domain.ActionSuccess:
		n.Kind = KindSuccess
	case res.Status == domain.ActionValidationError:
		n.Kind = KindValidation
		n.Fields = res.ValidationErrors
	default:
		n.Kind = KindError
	}
	if n.Message == "" {
		n.Message = MsgFailed
	}
	return n
}

func (b *Bridge) emit(n Notification) {
	if b == nil || b.Sink == nil {
		return
	}
	b.Sink.Notify(n)
}

func (b *Bridge) loading() string {
	if b != nil && b.Loading != "" {
		return b.Loading
	}
	return MsgLoading
}

// WriterSink prints notifications as single lines, field messages indented
// below validation notices. Loading notices are skipped unless Verbose.
type WriterSink struct {
	W       io.Writer
	Verbose bool

	mu sync.Mutex
}

// Notify writes n to s.W.
func (s *WriterSink) Notify(n Notification) {
	if n.Kind == KindLoading && !s.Verbose {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", n.Kind, n.Message)
	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, strings.Join(n.Fields[k], "; "))
	}
	_, _ = io.WriteString(s.W, b.String())
}
