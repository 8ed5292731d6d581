package form

import "github.com/goliatone/go-connectorform/pkg/metadata"

// ControlType is the input widget a field renders as.
type ControlType string

const (
	ControlText     ControlType = "text"
	ControlPassword ControlType = "password"
	ControlCheckbox ControlType = "checkbox"
	ControlRadio    ControlType = "radio"
	ControlDropdown ControlType = "dropdown"
	ControlURL      ControlType = "url"
	ControlNumber   ControlType = "number"
)

// ResolveControl picks the control for a metadata node from its type tag.
// Untyped and STRING nodes fall back to password when confidential and to a
// dropdown when options are declared.
func ResolveControl(node metadata.PropertyMetadata) ControlType {
	switch node.PropertyType() {
	case metadata.PropertyTypeBoolean, metadata.PropertyTypeCheckbox:
		return ControlCheckbox
	case metadata.PropertyTypeRadio:
		return ControlRadio
	case metadata.PropertyTypePassword:
		return ControlPassword
	case metadata.PropertyTypeURL:
		return ControlURL
	case metadata.PropertyTypeInteger, metadata.PropertyTypeNumber:
		return ControlNumber
	case metadata.PropertyTypeOptions:
		return ControlDropdown
	case metadata.PropertyTypeString, metadata.PropertyTypeUnknown:
		switch {
		case node.IsConfidential:
			return ControlPassword
		case len(node.Options) > 0:
			return ControlDropdown
		default:
			return ControlText
		}
	default:
		return ControlText
	}
}

// IsToggle reports whether the control drives the parent change listener
// when it has sub-properties.
func (c ControlType) IsToggle() bool {
	return c == ControlCheckbox || c == ControlRadio
}
