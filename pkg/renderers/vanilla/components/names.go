package components

// Canonical component names used by the vanilla renderer and default registry.
// Each form control type renders through the component of the same name.
const (
	NameText     = "text"
	NamePassword = "password"
	NameURL      = "url"
	NameNumber   = "number"
	NameCheckbox = "checkbox"
	NameRadio    = "radio"
	NameDropdown = "dropdown"
)
