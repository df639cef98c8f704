package observe

// NotificationKind
type NotificationKind string

const (
	// NextKind indicates the next value in the sequence
	NextKind NotificationKind = "NextKind"
	// ErrorKind indicates an error occurred
	ErrorKind NotificationKind = "ErrorKind"
	// CompleteKind indicates the sequence terminated normally
	CompleteKind NotificationKind = "CompleteKind"
)

type Notification[T any] interface {
	Kind() NotificationKind
	Value() T // returns the underlying value if it's a "Next" notification
	Err() error
	HasValue() bool
}

type notification[T any] struct {
	kind     NotificationKind
	v        T
	err      error
	hasValue bool
}

var _ Notification[any] = (*notification[any])(nil)

func (d notification[T]) Kind() NotificationKind {
	return d.kind
}

func (d notification[T]) Value() T {
	return d.v
}

func (d notification[T]) Err() error {
	return d.err
}

func (d notification[T]) HasValue() bool {
	return d.hasValue
}

func Next[T any](v T) Notification[T] {
	return &notification[T]{kind: NextKind, v: v, hasValue: true}
}

func Error[T any](err error) Notification[T] {
	return &notification[T]{kind: ErrorKind, err: err}
}

func Complete[T any]() Notification[T] {
	return &notification[T]{kind: CompleteKind}
}

// Dispatch replays the notification into an observer.
func Dispatch[T any](n Notification[T], observer Observer[T]) {
	switch n.Kind() {
	case NextKind:
		observer.OnNext(n.Value())
	case ErrorKind:
		observer.OnError(n.Err())
	case CompleteKind:
		observer.OnComplete()
	}
}
