package rendercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const renderMessageType = "parsers.render"

// RenderCommand asks a named backend to parse Input. With File set, Input is
// a path and the backend's file route is used.
type RenderCommand struct {
	// Backend names the registered adapter, e.g. goldmark or matter.
	Backend string `json:"backend"`
	// Input holds raw text, or a file path when File is true.
	Input string `json:"input"`
	// File routes Input through the file variant of the adapter.
	File bool `json:"file,omitempty"`
	// Options are forwarded to the adapter untouched.
	Options map[string]any `json:"options,omitempty"`
	// RequestID correlates logs and errors. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
	// OnResult receives the adapter output after a successful run.
	OnResult func(output any) `json:"-"`
}

// Type implements command.Message.
func (RenderCommand) Type() string { return renderMessageType }

// Validate ensures a backend and input are present before handlers execute.
func (cmd RenderCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Backend, validation.Required, validation.By(notBlank("backend"))),
		validation.Field(&cmd.Input, validation.Required),
		validation.Field(&cmd.RequestID, validation.By(func(value any) error {
			id, _ := value.(string)
			if id == "" {
				return nil
			}
			if _, err := uuid.Parse(id); err != nil {
				return validation.NewError("parsers.render.request_id_invalid", "request id must be a uuid")
			}
			return nil
		})),
	)
}

func notBlank(field string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError("parsers.render."+field+"_required", field+" is required")
		}
		return nil
	}
}
