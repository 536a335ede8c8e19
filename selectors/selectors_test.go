package selectors

import (
	"reflect"
	"strings"
	"testing"
)

func TestGetReturnsDefault(t *testing.T) {
	s := NewSet()
	if got := s.Get(Portal); got != "#portal-container" {
		t.Fatalf("unexpected portal selector: %s", got)
	}
}

func TestGetFallsBackWhenBlank(t *testing.T) {
	s := NewSet()
	s.Merge(map[string]string{string(InputBox): "   "})
	got := s.Get(InputBox)
	if got == "" {
		t.Fatal("expected a non-empty fallback for a blanked role")
	}
	if !strings.Contains(got, "contenteditable") {
		t.Fatalf("expected the generic input fallback, got %s", got)
	}
}

func TestMergeLeavesUnsetRolesUntouched(t *testing.T) {
	s := NewSet()
	before := s.Get(SendButton)
	s.Merge(map[string]string{string(ChatList): "div.custom"})
	if got := s.Get(ChatList); got != "div.custom" {
		t.Fatalf("expected merged selector, got %s", got)
	}
	if got := s.Get(SendButton); got != before {
		t.Fatalf("send button changed unexpectedly: %s", got)
	}
}

func TestMergeIgnoresUnknownRoles(t *testing.T) {
	s := NewSet()
	s.Merge(map[string]string{"notARole": "div"})
	if _, ok := s.Snapshot()["notARole"]; ok {
		t.Fatal("unknown role should not be stored")
	}
}

func TestList(t *testing.T) {
	s := NewSet()
	s.Merge(map[string]string{string(ChatItem): ` [role="listitem"] , li , `})
	expected := []string{`[role="listitem"]`, "li"}
	if got := s.List(ChatItem); !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSet()
	c := s.Clone()
	s.Merge(map[string]string{string(ChatList): "div.changed"})
	if c.Get(ChatList) == "div.changed" {
		t.Fatal("clone must not see later merges")
	}
}
