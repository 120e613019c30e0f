package domain

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentType identifies the kind of payload a message carries.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentDocument ContentType = "document"
)

// Reserved metadata keys written by the engine.
const (
	// MetaNode records the name of the node that produced the message.
	MetaNode = "node"
	// MetaToolCallID correlates a tool-role message with the call that produced it.
	MetaToolCallID = "tool_call_id"
	// MetaToolName records which tool a tool-role message came from.
	MetaToolName = "tool_name"
)

// Message is a single entry in a conversation log.
// Messages are value types: once appended to a Memory they are never mutated.
// Order is significant.
type Message struct {
	Role        Role              `json:"role" yaml:"role"`
	Content     string            `json:"content" yaml:"content"`
	ContentType ContentType       `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewSystemMessage creates a text message with the system role.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, ContentType: ContentText}
}

// NewUserMessage creates a text message with the user role.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, ContentType: ContentText}
}

// NewAssistantMessage creates a text message with the assistant role.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, ContentType: ContentText}
}

// NewToolMessage creates a tool-result message correlated to a tool call.
func NewToolMessage(toolName, callID, content string) Message {
	m := Message{Role: RoleTool, Content: content, ContentType: ContentText}
	m = m.WithMetadata(MetaToolName, toolName)
	return m.WithMetadata(MetaToolCallID, callID)
}

// WithMetadata returns a copy of the message with the given metadata entry set.
// The receiver is left untouched so logged messages stay immutable.
func (m Message) WithMetadata(key, value string) Message {
	meta := make(map[string]string, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		meta[k] = v
	}
	meta[key] = value
	m.Metadata = meta
	return m
}

// Node returns the name of the producing node, or "" if the message was not
// produced by the engine (e.g. a seeded input).
func (m Message) Node() string {
	return m.Metadata[MetaNode]
}
