// Package reply turns an incoming chat message plus recent context into
// a short reply via a hosted text-generation service.
package reply

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AMCarbonaro/snapbot/types"
)

// MaxContextChars bounds the transcript handed to the model; older
// turns are dropped from the front.
const MaxContextChars = 3500

// FillerReply substitutes for empty or failed generations.
const FillerReply = "ok"

// reservedRule keeps model output from sounding like a model.
const reservedRule = `CRITICAL: Be reserved. Reply in 1 short sentence max—or a few words. Never write long paragraphs, multiple sentences, or enthusiastic AI-sounding text. Text like a real person: brief, casual, understated.`

const baseInstructions = `"Me" is you; "Them" is the other person. Output ONLY the exact message to send - nothing else. No explanations, no meta-commentary. Just the reply.`

// refusalPatterns match model outputs that decline to answer. Those are
// never sent; the configured greeting goes out instead.
var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i (will not|won't|can't|cannot|don't|do not) respond`),
	regexp.MustCompile(`(?i)(won't|can't|cannot|will not) respond`),
}

// Client is the external text-generation service boundary.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator builds prompts and post-processes model output.
type Generator struct {
	client Client
}

func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// FormatTranscript renders the recent turns as "Me:"/"Them:" lines,
// truncated to the most recent MaxContextChars.
func FormatTranscript(recent []types.ChatMessage) string {
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		who := "Them"
		if m.FromMe {
			who = "Me"
		}
		line := who + ": " + strings.TrimSpace(m.Text)
		if len(line) > 2+len(who) {
			lines = append(lines, line)
		}
	}
	out := strings.Join(lines, "\n")
	if len(out) > MaxContextChars {
		out = out[len(out)-MaxContextChars:]
	}
	return out
}

// BuildPrompts produces the system and user prompt for one reply.
// personaPrompt may be empty, in which case a neutral persona applies.
func BuildPrompts(incoming string, recent []types.ChatMessage, personaPrompt string) (systemPrompt, userPrompt string) {
	transcript := FormatTranscript(recent)
	if personaPrompt != "" {
		systemPrompt = personaPrompt + "\n\n" + reservedRule
	} else {
		systemPrompt = "You are replying in a chat app. " + baseInstructions + "\n\n" + reservedRule
	}
	if transcript != "" {
		systemPrompt += "\n\nChat:\n" + transcript + "\n\nReply to the last message only."
		userPrompt = fmt.Sprintf("Last message from them: %q\n\nYour reply (message only):", incoming)
	} else {
		userPrompt = fmt.Sprintf("They said: %q\n\nYour reply (message only):", incoming)
	}
	return systemPrompt, userPrompt
}

// IsRefusal reports whether model output matches a refusal pattern.
func IsRefusal(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, re := range refusalPatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// Reply generates a reply to the incoming message. Empty output becomes
// the filler, a refusal becomes fallbackGreeting. A transport error is
// returned as-is; the caller substitutes the filler and records the
// error, generation failure must never abort a cycle.
func (g *Generator) Reply(ctx context.Context, incoming string, recent []types.ChatMessage, personaPrompt, fallbackGreeting string) (string, error) {
	systemPrompt, userPrompt := BuildPrompts(incoming, recent, personaPrompt)
	out, err := g.client.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return FillerReply, nil
	}
	if IsRefusal(out) {
		if fallbackGreeting == "" {
			fallbackGreeting = "hey"
		}
		return fallbackGreeting, nil
	}
	return out, nil
}
