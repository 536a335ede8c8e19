package inspect

import (
	"strings"
	"testing"

	"github.com/AMCarbonaro/snapbot/selectors"
)

const snapshot = `
<html><body>
  <div id="root">
    <div role="list" class="xyz123">
      <div role="listitem" class="row-a1"><span dir="auto">Alice</span></div>
      <div role="listitem" class="row-a1"><span dir="auto">Bob</span></div>
      <div role="listitem" class="row-a1"><span dir="auto">Carol</span></div>
      <div role="listitem" class="story-tile promoted-content-banner"><span dir="auto">Ad</span></div>
    </div>
    <ul class="ujRzj">
      <li><span dir="auto" class="msg-b2">hey</span></li>
      <li><span dir="auto" class="msg-b2">what's up</span></li>
    </ul>
    <div contenteditable="true" class="input-c3"></div>
    <button aria-label="Send message" class="send-d4"></button>
    <button class="other-e5">Cancel</button>
  </div>
</body></html>`

func TestAnalyzeRanksDominantShapeFirst(t *testing.T) {
	report, err := Analyze(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	items := report[selectors.ChatItem]
	if len(items) == 0 {
		t.Fatal("expected chat item candidates")
	}
	if !strings.Contains(items[0].Selector, "row-a1") {
		t.Fatalf("expected the repeated row class to rank first, got %q", items[0].Selector)
	}
	if items[0].Count != 3 {
		t.Fatalf("expected the dominant cluster to count 3 rows, got %d", items[0].Count)
	}
	if len(items[0].Examples) == 0 || items[0].Examples[0] != "Alice" {
		t.Fatalf("expected row text examples, got %v", items[0].Examples)
	}
}

func TestAnalyzeFindsInputAndSend(t *testing.T) {
	report, err := Analyze(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	inputs := report[selectors.InputBox]
	if len(inputs) == 0 || !strings.Contains(inputs[0].Selector, "input-c3") {
		t.Fatalf("expected the contenteditable input, got %v", inputs)
	}
	sends := report[selectors.SendButton]
	if len(sends) != 1 {
		t.Fatalf("expected exactly the labelled send button, got %v", sends)
	}
	if !strings.Contains(sends[0].Selector, "send-d4") {
		t.Fatalf("the cancel button must not qualify, got %q", sends[0].Selector)
	}
}

func TestAnalyzeMessageListRequiresItems(t *testing.T) {
	report, err := Analyze(`<html><body><ul class="empty"></ul><ul class="full"><li>x</li></ul></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	lists := report[selectors.MessageList]
	if len(lists) != 1 || !strings.Contains(lists[0].Selector, "full") {
		t.Fatalf("only lists with items qualify, got %v", lists)
	}
}

func TestReportMergePrependsNewSelectors(t *testing.T) {
	report, err := Analyze(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	current := selectors.NewSet()
	update := report.Merge(current)
	got, ok := update[string(selectors.SendButton)]
	if !ok {
		t.Fatalf("expected a send button update, got %v", update)
	}
	if !strings.HasPrefix(got, "button.send-d4") {
		t.Fatalf("the discovered selector must come first, got %q", got)
	}
	if !strings.Contains(got, current.Get(selectors.SendButton)) {
		t.Fatal("the existing registry entry must be kept as fallback")
	}
}

func TestReportMergeSkipsKnownSelectors(t *testing.T) {
	report := Report{
		selectors.ChatList: []Candidate{{Role: selectors.ChatList, Selector: "div.known"}},
	}
	current := selectors.NewSet()
	current.Merge(map[string]string{string(selectors.ChatList): "div.known, div.other"})
	if update := report.Merge(current); len(update) != 0 {
		t.Fatalf("a selector already in the registry must not produce an update, got %v", update)
	}
}
