package nlu

import (
	"testing"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

// 2025-03-01 10:00 in Kolkata
func fixedParser(t *testing.T) *TimeParser {
	loc := kolkata(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, loc)
	return NewTimeParser(loc, func() time.Time { return now })
}

func TestTimeParser_Parse(t *testing.T) {
	p := fixedParser(t)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"8:30 PM", "2025-03-01 20:30:00", true},
		{"8:30pm tomorrow", "2025-03-02 20:30:00", true},
		{"8pm", "2025-03-01 20:00:00", true},
		{"7 am today", "2025-03-01 07:00:00", true},
		{"tomorrow 9:15 a.m.", "2025-03-02 09:15:00", true},
		{"12:05 am", "2025-03-01 00:05:00", true},
		{"  10:00PM  ", "2025-03-01 22:00:00", true},
		{"12 pm", "2025-03-01 12:00:00", true},
		{"8:5 pm", "2025-03-01 20:05:00", true},
		{"08:30 am", "2025-03-01 08:30:00", true},
		{"0:30 pm", "", false},
		{"13 pm", "", false},
		{"9:60 am", "", false},
		{"noon", "", false},
		{"20:30", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := p.Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeParser_UsesReferenceZone(t *testing.T) {
	loc := kolkata(t)
	// 20:00 UTC on Mar 1 is already Mar 2 in Kolkata
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	p := NewTimeParser(loc, func() time.Time { return now })

	got, ok := p.Parse("8 am")
	require.True(t, ok)
	assert.Equal(t, "2025-03-02 08:00:00", got)
}

func TestTimeParser_ResolveWrapsIntentParse(t *testing.T) {
	p := fixedParser(t)

	_, err := p.Resolve("half past nine")
	assert.ErrorIs(t, err, core.ErrIntentParse)

	got, err := p.Resolve("9:15 pm")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 21:15:00", got)
}

func TestTimeParser_ParseOrNow(t *testing.T) {
	p := fixedParser(t)
	assert.Equal(t, "2025-03-01 10:00:00", p.ParseOrNow("whenever"))
}

func TestClassifier_RuleOrder(t *testing.T) {
	c := NewClassifier(fixedParser(t))
	assert.Equal(t, []string{
		"explicit_fact", "generic_fact", "create_task", "reminder", "fetch_tasks", "chat_history",
	}, c.RuleNames())
}

func TestClassifier_ExplicitFactBeatsGeneric(t *testing.T) {
	c := NewClassifier(fixedParser(t))

	// also matches the generic form: "remember <fact color> is ..."
	got := c.Classify("remember fact color is nice as Blue")

	require.Equal(t, core.ActionSaveFact, got.Action)
	require.NotNil(t, got.Fact)
	assert.Equal(t, "color is nice", got.Fact.Key)
	assert.Equal(t, "Blue", got.Fact.Value)
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(fixedParser(t))

	tests := []struct {
		name   string
		text   string
		action core.Action
		fact   *core.FactPayload
		task   *core.TaskPayload
	}{
		{
			name:   "explicit fact",
			text:   "Save fact favourite food as Masala Dosa",
			action: core.ActionSaveFact,
			fact:   &core.FactPayload{Key: "favourite food", Value: "Masala Dosa"},
		},
		{
			name:   "generic fact keeps value case",
			text:   "  My name is Asha  ",
			action: core.ActionSaveFact,
			fact:   &core.FactPayload{Key: "name", Value: "Asha"},
		},
		{
			name:   "remember generic",
			text:   "remember my city is Pune",
			action: core.ActionSaveFact,
			fact:   &core.FactPayload{Key: "my city", Value: "Pune"},
		},
		{
			name:   "create task",
			text:   "Add task Call Mom due 8:30pm tomorrow",
			action: core.ActionCreateTask,
			task:   &core.TaskPayload{Title: "Call Mom", Datetime: "2025-03-02 20:30:00", Priority: "medium", Category: "personal"},
		},
		{
			name:   "create task bad time defaults to now",
			text:   "create task pay rent due sometime",
			action: core.ActionCreateTask,
			task:   &core.TaskPayload{Title: "pay rent", Datetime: "2025-03-01 10:00:00", Priority: "medium", Category: "personal"},
		},
		{
			name:   "reminder",
			text:   "Remind me to drink water at 4 pm",
			action: core.ActionCreateTask,
			task:   &core.TaskPayload{Title: "drink water", Datetime: "2025-03-01 16:00:00", Priority: "medium", Category: "personal"},
		},
		{name: "fetch tasks", text: "can you SHOW TASKS please", action: core.ActionFetchTasks},
		{name: "my tasks", text: "what are my tasks", action: core.ActionFetchTasks},
		{name: "history", text: "show chat history", action: core.ActionGetChatHistory},
		{name: "previous messages", text: "what were my previous messages", action: core.ActionGetChatHistory},
		{name: "tasks before history", text: "list tasks and last chats", action: core.ActionFetchTasks},
		{name: "default", text: "what's my name", action: core.ActionGeneralChat},
		{name: "empty", text: "   ", action: core.ActionGeneralChat},
		{name: "mid-sentence name is chat", text: "hi, my name is Ravi", action: core.ActionGeneralChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.action, got.Action)
			assert.Equal(t, tt.fact, got.Fact)
			assert.Equal(t, tt.task, got.Task)
		})
	}
}
