package form

import (
	"sort"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// Width is a column span per breakpoint on a sixteen column grid.
type Width struct {
	Mobile   int `json:"mobile"`
	Tablet   int `json:"tablet"`
	Computer int `json:"computer"`
}

// Layout places a field on the grid. Nested fields are preceded by an empty
// spacer column.
type Layout struct {
	Columns int   `json:"columns"`
	Offset  Width `json:"offset"`
	Span    Width `json:"span"`
}

var (
	// TopLevelLayout is a single full row, half width on large screens.
	TopLevelLayout = Layout{Columns: 1, Span: Width{Mobile: 16, Tablet: 16, Computer: 8}}
	// NestedLayout shifts sub-property fields right by one spacer column.
	NestedLayout = Layout{
		Columns: 2,
		Offset:  Width{Mobile: 2, Tablet: 2, Computer: 1},
		Span:    Width{Mobile: 14, Tablet: 14, Computer: 7},
	}
)

// Indented reports whether the layout carries a spacer column.
func (l Layout) Indented() bool {
	return l.Offset != Width{}
}

// Field is one rendered input.
type Field struct {
	Key         string                `json:"key"`
	Label       string                `json:"label"`
	Description string                `json:"description,omitempty"`
	Type        metadata.PropertyType `json:"type,omitempty"`
	Control     ControlType           `json:"control"`
	Order       int                   `json:"order"`
	Depth       int                   `json:"depth"`
	Layout      Layout                `json:"layout"`
	Value       string                `json:"value,omitempty"`
	HasValue    bool                  `json:"hasValue"`
	Required    bool                  `json:"required,omitempty"`
	Options     []string              `json:"options,omitempty"`
	Default     string                `json:"default,omitempty"`
	Pattern     string                `json:"pattern,omitempty"`

	// Listen marks fields wired to the parent change listener.
	Listen bool `json:"listen,omitempty"`
	// Parent is the key of the checkbox or radio field that reveals this one.
	Parent string `json:"parent,omitempty"`
	// Revealed is false when an ancestor's working value is not "true".
	Revealed bool `json:"revealed"`
}

// Checked reports whether the field's current value is "true".
func (f Field) Checked() bool {
	return f.HasValue && f.Value == "true"
}

// Render builds the ordered field list for a metadata tree and the current
// working values. Nothing is rendered until values are available.
//
// Fields are collected recursively (a parent followed by its subtree) and the
// flattened result is then stable-sorted by each field's own display order.
// When parent and child display orders interleave, children can end up away
// from their parent; the sort is applied as is.
func Render(list []metadata.PropertyMetadata, values *metadata.Component) []Field {
	if values == nil {
		return nil
	}
	fields := collect(list, values, scope{revealed: true})
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	return fields
}

type scope struct {
	depth    int
	parent   string
	revealed bool
	listen   bool
}

func collect(list []metadata.PropertyMetadata, values *metadata.Component, sc scope) []Field {
	var bucket []Field
	for _, node := range list {
		// Nodes without a display name are dropped here and, because
		// submissions walk the same rule, from every payload as well.
		if !node.Visible() {
			continue
		}

		field := newField(node, values, sc)
		if !node.HasSubProperties() || !field.Control.IsToggle() {
			field.Listen = sc.listen
			bucket = append(bucket, field)
			continue
		}

		field.Listen = true
		bucket = append(bucket, field)

		child := scope{
			depth:    sc.depth + 1,
			parent:   node.Key,
			revealed: field.Revealed && field.Checked(),
			// Radio children report their own value changes; checkbox
			// children only listen when they are parents themselves.
			listen: field.Control == ControlRadio,
		}
		bucket = append(bucket, collect(node.SubProperties, values, child)...)
	}
	return bucket
}

func newField(node metadata.PropertyMetadata, values *metadata.Component, sc scope) Field {
	layout := TopLevelLayout
	if sc.depth > 0 {
		layout = NestedLayout
	}

	field := Field{
		Key:         node.Key,
		Label:       node.DisplayName,
		Description: node.Description,
		Type:        node.PropertyType(),
		Control:     ResolveControl(node),
		Order:       node.DisplayOrder,
		Depth:       sc.depth,
		Layout:      layout,
		Required:    node.IsMandatory,
		Default:     node.DefaultValue,
		Pattern:     node.Regex,
		Parent:      sc.parent,
		Revealed:    sc.revealed,
	}
	if len(node.Options) > 0 {
		field.Options = append([]string(nil), node.Options...)
	}
	if prop, ok := values.Find(node.Key); ok {
		field.Value = prop.Text()
		field.HasValue = true
	}
	return field
}
