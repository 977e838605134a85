package software

import "fmt"

// SelectionReason tells why a pattern is selected
type SelectionReason string

const (
	// SelectedByNone means the pattern is not selected
	SelectedByNone SelectionReason = "none"
	// SelectedByUser means the user asked for the pattern
	SelectedByUser SelectionReason = "user"
	// SelectedByAuto means the solver pulled the pattern in
	SelectedByAuto SelectionReason = "auto"
)

// Pattern is a software pattern offered by the installer. Its id is Name.
type Pattern struct {
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Summary     string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	Order       string          `json:"order,omitempty" yaml:"order,omitempty"`
	SelectedBy  SelectionReason `json:"selected_by,omitempty" yaml:"selected_by,omitempty"`
}

// IsSelected reports whether the pattern is selected for any reason
func (p Pattern) IsSelected() bool {
	return p.SelectedBy == SelectedByUser || p.SelectedBy == SelectedByAuto
}

func (p Pattern) String() string {
	if p.Summary == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Summary)
}
