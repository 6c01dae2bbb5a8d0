package domain

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

const (
	// ScopePersona scopes stable account ids derived for non-uuid personas.
	ScopePersona = "Persona"
	// ScopeCoinhouseAccount scopes per-coinhouse account ids.
	ScopeCoinhouseAccount = "CoinhouseAccount"
)

// DeterministicID derives a stable 128-bit id from a scope and a value: the
// first 16 bytes of SHA-256(scope + ":" + value). Identical inputs always
// produce identical ids, across processes and restarts.
func DeterministicID(scope, value string) uuid.UUID {
	sum := sha256.Sum256([]byte(scope + ":" + value))
	var id uuid.UUID
	copy(id[:], sum[:16])
	return id
}

// PersonaAccountID returns the persona's native uuid when it has one, and a
// deterministic id otherwise (coinhouse tags, process names, cd keys).
func PersonaAccountID(id PersonaID) uuid.UUID {
	switch id.Type {
	case PersonaCharacter, PersonaOrganization, PersonaGovernment, PersonaWarehouse:
		if native, err := id.UUIDValue(); err == nil {
			return native
		}
	}
	return DeterministicID(ScopePersona, id.String())
}

// CoinhouseAccountID scopes an account id to one persona at one coinhouse, so
// the same persona holds independent accounts at different coinhouses.
func CoinhouseAccountID(persona PersonaID, tag CoinhouseTag) uuid.UUID {
	return DeterministicID(ScopeCoinhouseAccount, persona.String()+":"+string(NormalizeCoinhouseTag(string(tag))))
}
