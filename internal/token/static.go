package token

import (
	"context"
	"errors"
)

// Static authorizes with a long-lived API key. Meant for development
// and tests; production clients should fetch ephemeral grants through
// Remote.
type Static struct {
	Key               string
	Model             string
	SystemInstruction string
}

func (s *Static) Token(_ context.Context, instruction string) (*Grant, error) {
	if s.Key == "" {
		return nil, errors.New("api key not configured")
	}
	g := &Grant{
		Token:             s.Key,
		Model:             s.Model,
		SystemInstruction: s.SystemInstruction,
	}
	if instruction != "" {
		g.SystemInstruction = instruction
	}
	return g, nil
}
