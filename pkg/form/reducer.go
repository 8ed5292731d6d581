package form

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// State is the form's working copy. Values is nil until the form mounts with
// initial values; CustomProperties is derived from Values on every
// transition.
type State struct {
	Values           *metadata.Component
	CustomProperties string
}

// Mounted reports whether the working copy is available.
func (s State) Mounted() bool {
	return s.Values != nil
}

// Action is a user or lifecycle interaction handled by Reducer.
type Action interface {
	isAction()
}

// Mount seeds the working copy from the caller's initial values. A nil
// Initial leaves the form unmounted.
type Mount struct {
	Initial *metadata.Component
}

// ParentChange reports a change event from a checkbox or radio parent.
type ParentChange struct {
	Key    string
	Values FormValues
}

// Unmount discards the working copy.
type Unmount struct{}

func (Mount) isAction()        {}
func (ParentChange) isAction() {}
func (Unmount) isAction()      {}

// Reducer computes working-copy transitions for one metadata tree.
type Reducer struct {
	metadata []metadata.PropertyMetadata
	trace    TraceFunc
}

// NewReducer binds a reducer to the metadata tree used for custom property
// derivation.
func NewReducer(list []metadata.PropertyMetadata, trace TraceFunc) Reducer {
	return Reducer{metadata: list, trace: trace}
}

// Reduce returns the state following action. The input state is not
// modified.
func (r Reducer) Reduce(state State, action Action) State {
	var next State
	switch a := action.(type) {
	case Mount:
		next = State{Values: a.Initial.Clone()}
		r.trace.emit(Event{Kind: EventMounted, Detail: strconv.FormatBool(next.Mounted())})
	case ParentChange:
		next = State{Values: applyParentChange(state.Values, a.Key, a.Values)}
		value, _ := next.Values.Find(a.Key)
		r.trace.emit(Event{Kind: EventParentChanged, Key: a.Key, Value: value.Text()})
	case Unmount:
		r.trace.emit(Event{Kind: EventUnmounted})
		return State{}
	default:
		return state
	}

	if next.Values != nil {
		next.CustomProperties = DeriveCustomProperties(next.Values, r.metadata)
		r.trace.emit(Event{Kind: EventCustomProperties, Value: next.CustomProperties})
	}
	return next
}

// applyParentChange stores the boolean derived from whether the group's value
// includes the field's own key. Only the entry for key is touched.
func applyParentChange(values *metadata.Component, key string, form FormValues) *metadata.Component {
	value := strconv.FormatBool(form[key].Includes(key))

	next := values.Clone()
	if next == nil {
		next = &metadata.Component{}
	}

	updated := make([]metadata.Property, 0, len(next.Properties)+1)
	replaced := false
	for _, prop := range next.Properties {
		if prop.Key == key {
			updated = append(updated, metadata.Property{Key: key, Value: value})
			replaced = true
			continue
		}
		updated = append(updated, prop)
	}
	if !replaced {
		updated = append(updated, metadata.Property{Key: key, Value: value})
	}
	next.Properties = updated
	return next
}

// DeriveCustomProperties lists the stored properties whose key appears nowhere
// in the metadata tree as "k1=v1, k2=v2", in stored order.
func DeriveCustomProperties(values *metadata.Component, list []metadata.PropertyMetadata) string {
	if values == nil {
		return ""
	}
	var pairs []string
	for _, prop := range values.Properties {
		if _, known := metadata.FindMetadata(list, prop.Key); known {
			continue
		}
		pairs = append(pairs, prop.Key+"="+prop.Text())
	}
	return strings.Join(pairs, ", ")
}
