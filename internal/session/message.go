// Package session holds the conversational state driving one translation run:
// immutable role-tagged messages and the bounded thread that orders them.
package session

import (
	"fmt"

	"github.com/google/uuid"
)

// Role represents the role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is an immutable unit of conversational content.
// Two messages are the same message only if their IDs match; equal content is not enough.
type Message struct {
	id      uuid.UUID
	role    Role
	content string
}

// NewMessage creates a message with a fresh identity.
func NewMessage(role Role, content string) Message {
	return Message{
		id:      uuid.New(),
		role:    role,
		content: content,
	}
}

// System, User and Assistant are shorthands for NewMessage.
func System(content string) Message    { return NewMessage(RoleSystem, content) }
func User(content string) Message      { return NewMessage(RoleUser, content) }
func Assistant(content string) Message { return NewMessage(RoleAssistant, content) }

func (m Message) ID() uuid.UUID   { return m.id }
func (m Message) Role() Role      { return m.role }
func (m Message) Content() string { return m.content }

// IsZero reports whether m was never initialised through NewMessage.
func (m Message) IsZero() bool { return m.id == uuid.Nil }

// Validate checks if the Message is usable in a thread.
func (m Message) Validate() error {
	if m.IsZero() {
		return fmt.Errorf("message has no identity")
	}
	if !m.role.Valid() {
		return fmt.Errorf("invalid message role: %s", m.role)
	}
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("%s(%s): %q", m.role, m.id.String()[:8], m.content)
}
