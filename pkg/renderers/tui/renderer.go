package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer walks a form in the terminal, one prompt per revealed field, then
// submits it and serializes the resulting payload.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	customLabel       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		customLabel:  "Custom properties",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every revealed field in display order. Answering a checkbox
// or radio parent dispatches a parent change so its children show up in the
// remaining prompts. The custom properties line comes last, after which the
// form is submitted and the payload returned.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("tui: form is nil")
	}
	if !f.State().Mounted() {
		return []byte{}, nil
	}

	for _, msg := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	state := NewState(opts.Errors)
	for {
		field, ok := state.Next(f.Fields())
		if !ok {
			break
		}
		if err := r.promptField(ctx, f, field, state); err != nil {
			return nil, err
		}
	}
	state.Prune(f.Fields())

	custom, err := r.promptCustomProperties(ctx, f, state)
	if err != nil {
		return nil, err
	}
	state.Set(form.CustomPropertiesField, form.Text(custom))

	payload, err := f.Submit(ctx, state.Values())
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}
	if r.submitTransformer != nil {
		payload, err = r.submitTransformer(payload)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(payload)
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field form.Field, state *State) error {
	for _, msg := range state.ErrorsFor(field.Key) {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.Label, msg)); err != nil {
			return err
		}
	}

	switch field.Control {
	case form.ControlCheckbox, form.ControlRadio:
		return r.promptToggle(ctx, f, field, state)
	case form.ControlDropdown:
		return r.promptSelect(ctx, field, state)
	case form.ControlPassword:
		return r.promptPassword(ctx, field, state)
	default:
		return r.promptText(ctx, field, state)
	}
}

func (r *Renderer) promptToggle(ctx context.Context, f *form.Form, field form.Field, state *State) error {
	checked, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.message(field),
		Default: field.Checked(),
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	if checked {
		state.Set(field.Key, form.Selected(field.Key))
	} else {
		state.Set(field.Key, form.Selected())
	}
	if !field.Listen {
		return nil
	}
	if err := f.ChangeParent(field.Key, form.Toggle(field.Key, checked)); err != nil {
		return fmt.Errorf("tui: change %s: %w", field.Key, err)
	}
	return nil
}

func (r *Renderer) promptSelect(ctx context.Context, field form.Field, state *State) error {
	options := field.Options
	if len(options) == 0 {
		return r.promptText(ctx, field, state)
	}
	current := field.Default
	if field.HasValue {
		current = field.Value
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.message(field),
		Options:      options,
		DefaultIndex: indexOf(options, current),
		Help:         field.Description,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: %s: %w", field.Key, ErrNoSelection)
	}
	state.Set(field.Key, form.Text(options[idx]))
	return nil
}

func (r *Renderer) promptPassword(ctx context.Context, field form.Field, state *State) error {
	validate := validator(field)
	for {
		response, err := r.driver.Password(ctx, InputConfig{
			Message: r.message(field),
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		// An empty answer keeps the stored secret.
		if response == "" && field.HasValue {
			response = field.Value
		}
		if err := validate(response); err != nil {
			if infoErr := r.invalid(ctx, field, err); infoErr != nil {
				return infoErr
			}
			continue
		}
		state.Set(field.Key, form.Text(response))
		return nil
	}
}

func (r *Renderer) promptText(ctx context.Context, field form.Field, state *State) error {
	validate := validator(field)
	defaultVal := field.Default
	if field.HasValue {
		defaultVal = field.Value
	}
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: r.message(field),
			Default: defaultVal,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if infoErr := r.invalid(ctx, field, err); infoErr != nil {
				return infoErr
			}
			continue
		}
		state.Set(field.Key, form.Text(response))
		return nil
	}
}

func (r *Renderer) promptCustomProperties(ctx context.Context, f *form.Form, state *State) (string, error) {
	for _, msg := range state.ErrorsFor(form.CustomPropertiesField) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return "", err
		}
	}
	return r.driver.Input(ctx, InputConfig{
		Message: r.theme.PromptPrefix + r.customLabel,
		Default: f.CustomProperties(),
		Help:    "Comma separated key=value pairs",
	})
}

func (r *Renderer) invalid(ctx context.Context, field form.Field, err error) error {
	return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.Label, err))
}

func (r *Renderer) message(field form.Field) string {
	label := field.Label
	if field.Required {
		label += " *"
	}
	if field.Depth > 0 {
		label = strings.Repeat("  ", field.Depth) + label
	}
	return r.theme.PromptPrefix + label
}

// validator checks required, numeric and pattern constraints. Blank optional
// answers always pass.
func validator(field form.Field) func(string) error {
	var pattern *regexp.Regexp
	if field.Pattern != "" {
		if re, err := regexp.Compile("^(?:" + field.Pattern + ")$"); err == nil {
			pattern = re
		}
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			if field.Required {
				return errors.New("value is required")
			}
			return nil
		}
		if field.Control == form.ControlNumber {
			if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
				return errors.New("must be a number")
			}
		}
		if field.Control == form.ControlURL {
			if u, err := url.Parse(value); err != nil || u.Scheme == "" || u.Host == "" {
				return errors.New("must be an absolute URL")
			}
		}
		if pattern != nil && !pattern.MatchString(value) {
			return fmt.Errorf("must match %s", field.Pattern)
		}
		return nil
	}
}

func (r *Renderer) serialize(payload metadata.Component) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(payloadValues(payload))), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(payloadValues(payload))), nil
	default:
		return json.Marshal(payload)
	}
}

// payloadValues nests the properties under "properties" keyed by property
// key, next to the component attributes.
func payloadValues(payload metadata.Component) map[string]any {
	out := make(map[string]any, len(payload.Attributes)+1)
	for key, value := range payload.Attributes {
		out[key] = value
	}
	props := make(map[string]any, len(payload.Properties))
	for _, prop := range payload.Properties {
		props[prop.Key] = prop.Value
	}
	out["properties"] = props
	return out
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, out)
		}
	case []string:
		for _, val := range v {
			out.Add(prefix+"[]", val)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, join(prefix, key), v[key])
		}
	case []string:
		for idx, val := range v {
			fmt.Fprintf(b, "%s[%d]=%s\n", prefix, idx, val)
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
