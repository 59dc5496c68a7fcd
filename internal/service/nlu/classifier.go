package nlu

import (
	"regexp"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/sandevgo/recallbot/internal/core"
)

const (
	defaultPriority = "medium"
	defaultCategory = "personal"
)

// matcher reports whether a rule applies and returns its capture groups.
type matcher func(text string) ([]string, bool)

type builder func(c *Classifier, groups []string) core.Intent

type rule struct {
	name  string
	match matcher
	build builder
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []rule
	times *TimeParser
}

func NewClassifier(times *TimeParser) *Classifier {
	if times == nil {
		times = NewTimeParser(nil, nil)
	}
	return &Classifier{
		rules: DefaultRules(),
		times: times,
	}
}

// DefaultRules is the built-in table. Explicit "save fact" must stay
// ahead of the generic "my X is Y" form.
func DefaultRules() []rule {
	return []rule{
		{
			name:  "explicit_fact",
			match: regexMatcher(`(?i)^(?:save|remember)\s+fact\s+(.+?)\s+as\s+(.+)`),
			build: buildFact,
		},
		{
			name:  "generic_fact",
			match: regexMatcher(`(?i)^(?:remember|my)\s+(.+?)\s+is\s+(.+)`),
			build: buildFact,
		},
		{
			name:  "create_task",
			match: regexMatcher(`(?i)^(?:create|add)\s+task\s+(.+?)\s+due\s+(.+)`),
			build: buildTask,
		},
		{
			name:  "reminder",
			match: regexMatcher(`(?i)^remind\s+me\s+to\s+(.+?)\s+at\s+(.+)`),
			build: buildTask,
		},
		{
			name:  "fetch_tasks",
			match: keywordMatcher("show tasks", "list tasks", "my tasks"),
			build: constant(core.ActionFetchTasks),
		},
		{
			name:  "chat_history",
			match: keywordMatcher("show chat history", "last chats", "previous messages"),
			build: constant(core.ActionGetChatHistory),
		},
	}
}

func (c *Classifier) Classify(text string) core.Intent {
	trimmed := strings.TrimSpace(text)
	for _, r := range c.rules {
		if groups, ok := r.match(trimmed); ok {
			return r.build(c, groups)
		}
	}
	return core.Intent{Action: core.ActionGeneralChat}
}

// RuleNames lists rules in evaluation order.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.name
	}
	return names
}

func regexMatcher(pattern string) matcher {
	re := regexp.MustCompile(pattern)
	return func(text string) ([]string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		return m[1:], true
	}
}

// keywordMatcher matches when any keyword occurs anywhere in the text,
// case-insensitively.
func keywordMatcher(keywords ...string) matcher {
	ac, err := ahocorasick.NewBuilder().
		AddStrings(keywords).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		panic("nlu: build keyword automaton: " + err.Error())
	}
	return func(text string) ([]string, bool) {
		matches := ac.FindAllOverlapping([]byte(strings.ToLower(text)))
		return nil, len(matches) > 0
	}
}

func constant(action core.Action) builder {
	return func(*Classifier, []string) core.Intent {
		return core.Intent{Action: action}
	}
}

func buildFact(_ *Classifier, groups []string) core.Intent {
	return core.Intent{
		Action: core.ActionSaveFact,
		Fact: &core.FactPayload{
			Key:   strings.ToLower(strings.TrimSpace(groups[0])),
			Value: strings.TrimSpace(groups[1]),
		},
	}
}

func buildTask(c *Classifier, groups []string) core.Intent {
	return core.Intent{
		Action: core.ActionCreateTask,
		Task: &core.TaskPayload{
			Title:    strings.TrimSpace(groups[0]),
			Datetime: c.times.ParseOrNow(groups[1]),
			Priority: defaultPriority,
			Category: defaultCategory,
		},
	}
}
