package dto

// PersonaURI binds the persona path parameter.
type PersonaURI struct {
	PersonaID string `uri:"personaID" binding:"required,personaid"`
}

// CommandResponse is the body returned for every handled command.
type CommandResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
