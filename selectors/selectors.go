// Package selectors holds the current set of DOM query strings for the
// target page. The page's markup changes without notice, so every role
// is mutable at runtime and carries a generic fallback.
package selectors

import "strings"

// Role names a logical element of the target page.
type Role string

const (
	ChatList      Role = "chatList"
	ChatItem      Role = "chatItem"
	InputBox      Role = "inputBox"
	SendButton    Role = "sendButton"
	Portal        Role = "portal"
	MessageList   Role = "messageList"
	MessageBubble Role = "messageBubble"
	SearchInput   Role = "searchInput"
	FriendsFeed   Role = "friendsFeed"
	VirtualList   Role = "virtualList"
)

// Roles lists every known role, in a stable order.
var Roles = []Role{
	ChatList, ChatItem, InputBox, SendButton, Portal,
	MessageList, MessageBubble, SearchInput, FriendsFeed, VirtualList,
}

// defaults are the selectors the target page matched at the time of
// writing. Class names like ujRzj are obfuscated and rotate with page
// deployments; the aria/role based alternatives tend to survive longer.
var defaults = map[Role]string{
	ChatList:      `div[aria-label="Friends Feed"], [role="list"]`,
	ChatItem:      `[role="listitem"]`,
	InputBox:      `[role="textbox"][contenteditable="true"], .euyIb, .kS3a, [contenteditable="true"]`,
	SendButton:    `div.qfM button, div.shMO3 button, div.shMO3 [role="button"], .fCmUn button, button[aria-label*="Send" i], [aria-label="Send"], button[type="submit"]`,
	Portal:        `#portal-container`,
	MessageList:   `ul.ujRzj`,
	MessageBubble: `span[dir="auto"], span.ogn1z, .p8r1z span, div[dir="auto"]`,
	SearchInput:   `input[role="search"], input[aria-label="Search"], input.kS3a`,
	FriendsFeed:   `div[aria-label="Friends Feed"]`,
	VirtualList:   `.ReactVirtualized__Grid.ReactVirtualized__List, [role="list"]`,
}

// fallbacks are last-resort generic selectors used when a role has been
// blanked out entirely. Invalid or unset selectors must degrade to "not
// found", never to a missing role.
var fallbacks = map[Role]string{
	ChatList:      `[role="list"], ul`,
	ChatItem:      `[role="listitem"], li`,
	InputBox:      `[contenteditable="true"], [role="textbox"], textarea, input[type="text"]`,
	SendButton:    `button[aria-label*="Send" i], [aria-label="Send"], button[type="submit"]`,
	Portal:        `body`,
	MessageList:   `ul`,
	MessageBubble: `span[dir="auto"], div[dir="auto"]`,
	SearchInput:   `input`,
	FriendsFeed:   `[role="list"]`,
	VirtualList:   `[role="list"]`,
}

// Set is a mutable selector registry. The zero value is not usable; use
// NewSet.
type Set struct {
	m map[Role]string
}

func NewSet() *Set {
	m := make(map[Role]string, len(defaults))
	for r, s := range defaults {
		m[r] = s
	}
	return &Set{m: m}
}

// Get returns the selector list for a role, falling back to the generic
// selectors when the role is unset or blank.
func (s *Set) Get(role Role) string {
	if v := strings.TrimSpace(s.m[role]); v != "" {
		return v
	}
	return fallbacks[role]
}

// List splits the role's selector string into its comma-separated
// alternatives, trimmed, empty entries dropped.
func (s *Set) List(role Role) []string {
	parts := strings.Split(s.Get(role), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Merge overlays the given roles onto the current ones. Roles absent
// from the update keep their current value. No selector syntax
// validation happens here; an invalid selector simply matches nothing
// at execution time.
func (s *Set) Merge(update map[string]string) {
	for k, v := range update {
		role := Role(k)
		if !known(role) {
			continue
		}
		s.m[role] = v
	}
}

// Snapshot returns a copy of the current mapping, for the config
// surface and the inspect report.
func (s *Set) Snapshot() map[string]string {
	out := make(map[string]string, len(s.m))
	for r, v := range s.m {
		out[string(r)] = v
	}
	return out
}

// Clone returns an independent copy, so a cycle can work against a
// stable selector set while the config surface keeps mutating the
// original.
func (s *Set) Clone() *Set {
	m := make(map[Role]string, len(s.m))
	for r, v := range s.m {
		m[r] = v
	}
	return &Set{m: m}
}

func known(r Role) bool {
	for _, k := range Roles {
		if k == r {
			return true
		}
	}
	return false
}

// Default returns the built-in selector for a role, used by the inspect
// report to show drift.
func Default(role Role) string {
	return defaults[role]
}
