package trace

import (
	"errors"
	"io"
	"sync"
)

// StreamTracer encodes each event to w as soon as it is emitted.
type StreamTracer struct {
	filter
	mu     sync.Mutex
	w      io.Writer
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{filter: filter{level}, w: w, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.keep(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	// ошибки записи трейса не должны ронять генерацию
	_, _ = t.w.Write(FormatEvent(ev, t.format)) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	filter
	targets []Tracer
}

func NewMultiTracer(level Level, targets ...Tracer) *MultiTracer {
	return &MultiTracer{filter: filter{level}, targets: targets}
}

// Emit hands every target its own copy; each one stamps Seq itself.
func (t *MultiTracer) Emit(ev *Event) {
	for _, target := range t.targets {
		cp := *ev
		target.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	return t.each(Tracer.Flush)
}

func (t *MultiTracer) Close() error {
	return t.each(Tracer.Close)
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.targets))
	for _, target := range t.targets {
		errs = append(errs, fn(target))
	}
	return errors.Join(errs...)
}

// Ring returns the first ring target, nil when there is none.
func (t *MultiTracer) Ring() *RingTracer {
	for _, target := range t.targets {
		if r, ok := target.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

// RingOf finds the ring buffer behind t, if any.
func RingOf(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *MultiTracer:
		return t.Ring()
	}
	return nil
}
