package onprem

import (
	"encoding/json"
	"fmt"
)

// Directive instructs the external applier to set one property of one directory object.
// A nil Value clears the property.
type Directive struct {
	Identity string `json:"identity"`
	Property string `json:"property"`
	Value    any    `json:"value"`
}

// Key names the directive. A later directive for the same object and property replaces
// an unconsumed earlier one.
func (d Directive) Key() string {
	return fmt.Sprintf("onprem_changes/%s_%s.json", d.Identity, d.Property)
}

// Payload is the JSON document handed to the applier.
func (d Directive) Payload() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func (d Directive) validate() error {
	if d.Identity == "" || d.Property == "" {
		return ErrDirectiveIncomplete
	}

	return nil
}
