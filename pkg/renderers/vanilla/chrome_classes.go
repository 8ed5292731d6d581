package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm        ChromeClass = "cf-form"
	ClassGrid        ChromeClass = "cf-grid"
	ClassField       ChromeClass = "cf-field"
	ClassNested      ChromeClass = "cf-nested"
	ClassErrors      ChromeClass = "cf-errors"
	ClassActions     ChromeClass = "cf-actions"
	ClassCustomProps ChromeClass = "cf-field cf-custom-properties"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"grid":    string(ClassGrid),
		"errors":  string(ClassErrors),
		"actions": string(ClassActions),
		"custom":  string(ClassCustomProps),
	}
}
