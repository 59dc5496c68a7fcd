package core

import "time"

const (
	AppName        = "RecallBot"
	AppUserAgent   = "RecallBot/0.1"
	AppVersion     = "0.1.0"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// GlobalOwner owns facts that apply to every user.
const GlobalOwner = ""

type Action string

const (
	ActionCreateTask     Action = "create_task"
	ActionFetchTasks     Action = "fetch_tasks"
	ActionSaveFact       Action = "save_fact"
	ActionGetChatHistory Action = "get_chat_history"
	ActionGeneralChat    Action = "general_chat"
)

// ConversationTurn is one inbound message.
type ConversationTurn struct {
	UserID         string
	Text           string
	ConversationID string
	At             time.Time
}

type TaskPayload struct {
	Title    string `json:"title"`
	Datetime string `json:"datetime"`
	Priority string `json:"priority"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type FactPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Intent is the classifier output. Exactly one payload is set for
// create_task and save_fact; both are nil otherwise.
type Intent struct {
	Action Action       `json:"action"`
	Task   *TaskPayload `json:"task,omitempty"`
	Fact   *FactPayload `json:"fact,omitempty"`
}

type MemoryMatch struct {
	ID       string
	Score    float32
	Text     string
	UserID   string
	Metadata map[string]string
}

type FactRecord struct {
	Owner     string    `json:"owner"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HistoryEntry struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	User           string    `json:"user"`
	Bot            string    `json:"bot"`
	CreatedAt      time.Time `json:"created_at"`
}

type Task struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Datetime  string    `json:"datetime"`
	Priority  string    `json:"priority"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptContext carries the named template fields. Empty fields are
// replaced with placeholders at render time.
type PromptContext struct {
	Prompt        string
	Facts         string
	MemoryContext string
	History       string
	State         string
}

type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Relationship struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

type Entities struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// ProviderStatus is a cooldown snapshot for one provider.
type ProviderStatus struct {
	Name        string
	Available   bool
	LastFailure time.Time
	RetryAt     time.Time
}
