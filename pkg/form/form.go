package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

var (
	// ErrClosed is returned by interactions after Close.
	ErrClosed = errors.New("form: closed")
	// ErrTriggerUnbound is returned when a trigger fires before a form binds it.
	ErrTriggerUnbound = errors.New("form: submit trigger is not bound to a form")
)

// SubmitFunc receives the payload of a user triggered submit.
type SubmitFunc func(ctx context.Context, payload metadata.Component) error

// Option customises a Form.
type Option func(*Form)

// WithSubmit registers the submit callback.
func WithSubmit(fn SubmitFunc) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithTrigger binds an external submit trigger to the form.
func WithTrigger(trigger *Trigger) Option {
	return func(f *Form) {
		f.trigger = trigger
	}
}

// WithSubmitButton toggles the form's own submit button. Enabled by default.
func WithSubmitButton(enabled bool) Option {
	return func(f *Form) {
		f.submitButton = enabled
	}
}

// WithTrace installs a diagnostic hook. Repeated calls chain the hooks in
// option order.
func WithTrace(fn TraceFunc) Option {
	return func(f *Form) {
		f.trace = f.trace.then(fn)
	}
}

// WithStrictCustomProperties makes Submit reject malformed custom property
// text instead of submitting properties with nil values.
func WithStrictCustomProperties() Option {
	return func(f *Form) {
		f.strict = true
	}
}

// Form is a mounted connector form. It is not safe for concurrent use.
type Form struct {
	metadata     metadata.ComponentMetadata
	initial      *metadata.Component
	reducer      Reducer
	state        State
	onSubmit     SubmitFunc
	trigger      *Trigger
	submitButton bool
	strict       bool
	trace        TraceFunc
	closed       bool
}

// New mounts a form for meta seeded with initial. initial may be nil, in which
// case the form renders no fields until Reset supplies values.
func New(meta metadata.ComponentMetadata, initial *metadata.Component, options ...Option) *Form {
	f := &Form{
		metadata:     meta.Clone(),
		initial:      initial.Clone(),
		submitButton: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.reducer = NewReducer(f.metadata.Properties, f.trace)
	f.state = f.reducer.Reduce(State{}, Mount{Initial: f.initial})
	if f.trigger != nil {
		f.trigger.bind(f)
	}
	return f
}

// Metadata returns a copy of the metadata the form was built from.
func (f *Form) Metadata() metadata.ComponentMetadata {
	return f.metadata.Clone()
}

// Initial returns a copy of the initial values.
func (f *Form) Initial() *metadata.Component {
	return f.initial.Clone()
}

// State returns the current working copy.
func (f *Form) State() State {
	return State{Values: f.state.Values.Clone(), CustomProperties: f.state.CustomProperties}
}

// Values returns a copy of the working values, nil before mount.
func (f *Form) Values() *metadata.Component {
	return f.state.Values.Clone()
}

// Fields renders the ordered field list for the current working copy.
func (f *Form) Fields() []Field {
	return Render(f.metadata.Properties, f.state.Values)
}

// CustomProperties returns the derived custom properties text.
func (f *Form) CustomProperties() string {
	return f.state.CustomProperties
}

// ShowCustomProperties reports whether the custom properties input renders.
func (f *Form) ShowCustomProperties() bool {
	return f.state.CustomProperties != ""
}

// SubmitButtonEnabled reports whether the form renders its own submit button.
func (f *Form) SubmitButtonEnabled() bool {
	return f.submitButton
}

// ChangeParent handles a change event from a checkbox or radio parent.
func (f *Form) ChangeParent(key string, values FormValues) error {
	if f.closed {
		return ErrClosed
	}
	f.dispatch(ParentChange{Key: key, Values: values})
	return nil
}

// Reset discards the working copy and mounts initial in its place.
func (f *Form) Reset(initial *metadata.Component) error {
	if f.closed {
		return ErrClosed
	}
	f.initial = initial.Clone()
	f.dispatch(Unmount{})
	f.dispatch(Mount{Initial: f.initial})
	return nil
}

// Payload builds the submission payload without invoking the callback.
func (f *Form) Payload(values FormValues) (metadata.Component, error) {
	opts := []SubmitOption{WithSubmitTrace(f.trace)}
	if f.strict {
		opts = append(opts, WithStrictParsing())
	}
	return BuildSubmission(f.metadata, f.initial, values, opts...)
}

// Submit builds the payload and hands it to the submit callback.
func (f *Form) Submit(ctx context.Context, values FormValues) (metadata.Component, error) {
	if f.closed {
		return metadata.Component{}, ErrClosed
	}
	payload, err := f.Payload(values)
	if err != nil {
		return metadata.Component{}, err
	}
	f.trace.emit(Event{Kind: EventSubmitted, Detail: fmt.Sprintf("%d properties", len(payload.Properties))})
	if f.onSubmit == nil {
		return payload, nil
	}
	if err := f.onSubmit(ctx, payload); err != nil {
		return payload, fmt.Errorf("form: submit: %w", err)
	}
	return payload, nil
}

// Close discards the working copy and unbinds the trigger.
func (f *Form) Close() {
	if f.closed {
		return
	}
	f.dispatch(Unmount{})
	if f.trigger != nil {
		f.trigger.unbind(f)
	}
	f.closed = true
}

func (f *Form) dispatch(action Action) {
	f.state = f.reducer.Reduce(f.state, action)
}

// Trigger submits a bound form from outside it, for example from a wizard's
// footer button.
type Trigger struct {
	form *Form
}

// NewTrigger returns an unbound trigger; pass it to New with WithTrigger.
func NewTrigger() *Trigger {
	return &Trigger{}
}

// Bound reports whether a form is attached.
func (t *Trigger) Bound() bool {
	return t != nil && t.form != nil
}

// Fire submits the bound form with values.
func (t *Trigger) Fire(ctx context.Context, values FormValues) (metadata.Component, error) {
	if !t.Bound() {
		return metadata.Component{}, ErrTriggerUnbound
	}
	return t.form.Submit(ctx, values)
}

func (t *Trigger) bind(f *Form) {
	t.form = f
}

func (t *Trigger) unbind(f *Form) {
	if t.form == f {
		t.form = nil
	}
}
