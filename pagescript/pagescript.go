// Package pagescript builds self-contained javascript snippets that are
// executed against the live target page. Every snippet catches its own
// failures and resolves to an object carrying an ok flag instead of
// throwing, so a selector that matches nothing degrades to "not found"
// rather than an execution error.
package pagescript

import (
	"encoding/json"
	"fmt"

	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/types"
)

// Result is the envelope every snippet resolves with.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RowsResult carries the visible conversation rows.
type RowsResult struct {
	Result
	Rows []types.ChatRow `json:"rows"`
}

// MetricsResult carries the scroll metrics of the virtualized list.
type MetricsResult struct {
	Result
	types.ScrollMetrics
}

// MessageResult carries the extracted state of the open conversation.
type MessageResult struct {
	Result
	types.MessageSnapshot
}

// FoundResult carries a boolean lookup outcome.
type FoundResult struct {
	Result
	Found bool `json:"found"`
}

// Rows taller than this are stories or other non-conversation entries
// of the feed, not chat rows.
const maxRowHeight = 120

const highlightAttr = "data-snapbot-mark"

// jsStr json-encodes a Go string into a javascript string literal.
func jsStr(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsStrList json-encodes a selector list into a javascript array
// literal.
func jsStrList(l []string) string {
	b, _ := json.Marshal(l)
	return string(b)
}

// findScroller locates the scrollable virtualized list element. Shared
// preamble of the list scripts.
func findScroller(s *selectors.Set) string {
	return fmt.Sprintf(`
    var sels = %s.concat(%s);
    var scroller = null;
    for (var i = 0; i < sels.length; i++) {
      try {
        var cand = document.querySelector(sels[i]);
        if (cand) { scroller = cand; break; }
      } catch (q) {}
    }
    if (scroller && scroller.scrollHeight <= scroller.clientHeight && scroller.parentElement) {
      var p = scroller;
      for (var d = 0; d < 4 && p; d++) {
        if (p.scrollHeight > p.clientHeight) { scroller = p; break; }
        p = p.parentElement;
      }
    }`,
		jsStrList(s.List(selectors.VirtualList)),
		jsStrList(s.List(selectors.FriendsFeed)))
}

// VisibleRows lists the currently visible conversation rows of the
// virtualized list, filtering out stories by row height and aria-label.
func VisibleRows(s *selectors.Set) string {
	return fmt.Sprintf(`
(function() {
  try {
    %s
    if (!scroller) return { ok: false, rows: [], error: 'no list' };
    var itemSels = %s;
    var items = [];
    for (var j = 0; j < itemSels.length; j++) {
      try { items = scroller.querySelectorAll(itemSels[j]); } catch (q) {}
      if (items.length) break;
    }
    if (!items.length && scroller.children && scroller.children.length) items = Array.from(scroller.children);
    var rows = [];
    for (var k = 0; k < items.length; k++) {
      var el = items[k];
      var rect = el.getBoundingClientRect();
      if (rect.height > %d) continue;
      var label = String((el.getAttribute && el.getAttribute('aria-label')) || '');
      if (/story/i.test(label)) continue;
      var name = '';
      var nameEl = el.querySelector('[dir="auto"], span, div');
      if (nameEl) name = (nameEl.textContent || '').trim();
      if (!name) name = (el.textContent || '').trim();
      name = name.split('\n')[0].trim().slice(0, 60);
      if (!name) continue;
      var unread = !!el.querySelector('[aria-label="Unread" i], [aria-label*="unread" i]');
      rows.push({ name: name, top: rect.top, unread: unread });
    }
    return { ok: true, rows: rows };
  } catch (e) { return { ok: false, rows: [], error: e.message }; }
})();`, findScroller(s), jsStrList(s.List(selectors.ChatItem)), maxRowHeight)
}

// Metrics reads the scroll state of the virtualized list.
func Metrics(s *selectors.Set) string {
	return fmt.Sprintf(`
(function() {
  try {
    %s
    if (!scroller) return { ok: false, error: 'no list' };
    return { ok: true, scrollTop: scroller.scrollTop, scrollHeight: scroller.scrollHeight, clientHeight: scroller.clientHeight };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, findScroller(s))
}

// ScrollTo moves the virtualized list to an absolute offset and fires a
// scroll event so the list re-renders its window.
func ScrollTo(s *selectors.Set, offset float64) string {
	return fmt.Sprintf(`
(function() {
  try {
    %s
    if (!scroller) return { ok: false, error: 'no list' };
    scroller.scrollTop = %g;
    scroller.dispatchEvent(new Event('scroll', { bubbles: true }));
    return { ok: true, scrollTop: scroller.scrollTop, scrollHeight: scroller.scrollHeight, clientHeight: scroller.clientHeight };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, findScroller(s), offset)
}

// ClickChatByName opens the conversation whose row text starts with the
// given display name. Any previous row highlight is cleared before the
// new one is set, so highlighting never accumulates.
func ClickChatByName(s *selectors.Set, name string) string {
	return fmt.Sprintf(`
(function() {
  try {
    %s
    if (!scroller) return { ok: false, found: false, error: 'no list' };
    var marked = document.querySelectorAll('[%s]');
    for (var c = 0; c < marked.length; c++) {
      marked[c].removeAttribute('%s');
      marked[c].style.outline = '';
    }
    var itemSels = %s;
    var items = [];
    for (var j = 0; j < itemSels.length; j++) {
      try { items = scroller.querySelectorAll(itemSels[j]); } catch (q) {}
      if (items.length) break;
    }
    if (!items.length && scroller.children && scroller.children.length) items = Array.from(scroller.children);
    var target = %s;
    for (var k = 0; k < items.length; k++) {
      var el = items[k];
      var txt = (el.textContent || '').trim();
      if (txt.indexOf(target) === 0) {
        el.setAttribute('%s', '1');
        el.style.outline = '1px solid transparent';
        (el.querySelector('[role="button"]') || el.querySelector('div:first-child') || el).click();
        return { ok: true, found: true };
      }
    }
    return { ok: true, found: false };
  } catch (e) { return { ok: false, found: false, error: e.message }; }
})();`, findScroller(s), highlightAttr, highlightAttr, jsStrList(s.List(selectors.ChatItem)), jsStr(name), highlightAttr)
}

// ClearHighlight removes any row highlight. Running it twice in a row
// is a no-op the second time.
func ClearHighlight() string {
	return fmt.Sprintf(`
(function() {
  try {
    var marked = document.querySelectorAll('[%s]');
    for (var c = 0; c < marked.length; c++) {
      marked[c].removeAttribute('%s');
      marked[c].style.outline = '';
    }
    return { ok: true };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, highlightAttr, highlightAttr)
}

// LastMessage extracts the last message of the open conversation plus
// up to 50 recent turns. Sender attribution walks back over grouped
// messages until it hits a header naming the sender; selfLabel is the
// label the page uses for the local user. A trailing entry that looks
// like an ephemeral-media notification is treated as non-textual and
// the previous entry supplies the text.
func LastMessage(s *selectors.Set, selfLabel string) string {
	return fmt.Sprintf(`
(function() {
  try {
    var root = document.querySelector(%s) || document.body;
    var me = %s.toLowerCase();
    var bubbleSel = %s;
    function liText(li) {
      var nodes = li.querySelectorAll ? li.querySelectorAll(bubbleSel) : [];
      var parts = [];
      for (var n = 0; n < nodes.length; n++) {
        var t = (nodes[n].textContent || '').trim();
        if (t && t.toLowerCase() !== me) parts.push(t);
      }
      var txt = parts.join(' ').trim();
      if (!txt) txt = (li.textContent || '').trim().replace(new RegExp('^' + me + '\\s*', 'i'), '').trim();
      return txt.slice(0, 1000);
    }
    function liHeader(li) {
      if (!li || !li.querySelector) return '';
      var h = li.querySelector('header');
      if (!h && li.firstElementChild && li.firstElementChild.tagName === 'HEADER') h = li.firstElementChild;
      return h ? (h.textContent || '').trim().toLowerCase() : '';
    }
    function liFromMe(li) {
      var h = liHeader(li);
      if (h) return h.indexOf(me) === 0;
      var sp = li.querySelector ? li.querySelector('span.nonIntl') : null;
      return !!(sp && (sp.textContent || '').trim().toLowerCase() === me);
    }
    function attributed(li) {
      var cur = li;
      for (var back = 0; back < 25 && cur; back++) {
        var h = liHeader(cur);
        if (h) return h.indexOf(me) === 0;
        if (liFromMe(cur)) return true;
        cur = cur.previousElementSibling;
      }
      return false;
    }
    function isEphemeral(li, txt) {
      if (li.querySelector && li.querySelector('button, [role="button"]')) return true;
      return /new\s*snap/i.test(txt || '');
    }
    var listSels = %s;
    var list = null;
    for (var ls = 0; ls < listSels.length; ls++) {
      var all = [];
      try { all = document.body.querySelectorAll(listSels[ls]); } catch (q) {}
      if (all.length) { list = all[all.length - 1]; break; }
    }
    if (!list) {
      var uls = root.querySelectorAll('ul');
      for (var u = uls.length - 1; u >= 0; u--) {
        if (uls[u].children && uls[u].children.length) { list = uls[u]; break; }
      }
    }
    var lastText = '';
    var lastFromMe = false;
    var recent = [];
    if (list && list.children && list.children.length) {
      var lastEl = list.children[list.children.length - 1];
      lastText = liText(lastEl);
      lastFromMe = attributed(lastEl);
      if (isEphemeral(lastEl, lastText)) {
        var prev = lastEl.previousElementSibling;
        var prevTxt = prev ? liText(prev) : '';
        if (prevTxt) {
          lastText = prevTxt;
          lastFromMe = attributed(prev);
        } else {
          lastFromMe = true;
        }
      }
      var max = Math.min(list.children.length, 50);
      for (var i = 0; i < max; i++) {
        var li = list.children[i];
        var txt = liText(li).slice(0, 300);
        if (txt && !isEphemeral(li, txt)) recent.push({ fromMe: attributed(li), text: txt });
      }
    }
    var main = root.querySelector('[role="main"]') || document.querySelector('main');
    var mainText = main ? (main.textContent || '').trim() : '';
    if (!lastText && mainText) lastText = mainText.slice(-300);
    var isNewChat = mainText.length < 50 || (!lastText && mainText.length < 200);
    var isNewSnap = mainText.toLowerCase().indexOf('snap') >= 0 || mainText.toLowerCase().indexOf('view') >= 0;
    return { ok: true, lastText: lastText || '', lastFromMe: lastFromMe, isNewChat: isNewChat, isNewSnap: isNewSnap, recentMessages: recent };
  } catch (e) { return { ok: false, error: e.message }; }
})();`,
		jsStr(s.Get(selectors.Portal)),
		jsStr(selfLabel),
		jsStr(s.Get(selectors.MessageBubble)),
		jsStrList(s.List(selectors.MessageList)))
}

// TypeInput types text into the message input, supporting both
// contenteditable elements and form inputs.
func TypeInput(s *selectors.Set, text string) string {
	return fmt.Sprintf(`
(function() {
  try {
    var root = document.querySelector(%s) || document.body;
    var inputSels = %s;
    var input = null;
    for (var i = 0; i < inputSels.length; i++) {
      try { input = root.querySelector(inputSels[i]) || document.querySelector(inputSels[i]); } catch (q) {}
      if (input) break;
    }
    if (!input) return { ok: false, error: 'no input' };
    input.focus();
    input.click();
    var text = %s;
    if (input.contentEditable === 'true' || input.getAttribute('contenteditable') === 'true') {
      try { document.execCommand('insertText', false, text); } catch (e) {}
      if (!input.innerText || input.innerText.indexOf(text) < 0) {
        input.innerText = text;
        input.dispatchEvent(new InputEvent('input', { bubbles: true, data: text }));
      }
    } else {
      input.value = text;
      input.dispatchEvent(new Event('input', { bubbles: true }));
    }
    return { ok: true };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, jsStr(s.Get(selectors.Portal)), jsStrList(s.List(selectors.InputBox)), jsStr(text))
}

// ClickSend clicks the send control, trying the configured selector
// list first and then any button-like element whose label matches
// "send".
func ClickSend(s *selectors.Set) string {
	return fmt.Sprintf(`
(function() {
  try {
    var root = document.querySelector(%s) || document.body;
    var sendSels = %s;
    var send = null;
    for (var j = 0; j < sendSels.length; j++) {
      try { send = root.querySelector(sendSels[j]) || document.querySelector(sendSels[j]); } catch (q) {}
      if (send) break;
    }
    if (!send) {
      var all = document.querySelectorAll('button, [role="button"], [type="submit"]');
      for (var k = 0; k < all.length; k++) {
        var el = all[k];
        var label = String((el.getAttribute && el.getAttribute('aria-label')) || el.textContent || '');
        if (/send/i.test(label)) { send = el; break; }
      }
    }
    if (!send) return { ok: false, error: 'no send' };
    send.click();
    return { ok: true };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, jsStr(s.Get(selectors.Portal)), jsStrList(s.List(selectors.SendButton)))
}

// BackToList returns the page to the conversation list view. Best
// effort: a back/close control if one exists, otherwise an Escape key
// event.
func BackToList(s *selectors.Set) string {
	return fmt.Sprintf(`
(function() {
  try {
    var back = null;
    var cands = ['button[aria-label*="Back" i]', '[aria-label="Close"]', 'button[aria-label*="Close" i]'];
    for (var i = 0; i < cands.length; i++) {
      try { back = document.querySelector(cands[i]); } catch (q) {}
      if (back) break;
    }
    if (back) { back.click(); return { ok: true }; }
    document.dispatchEvent(new KeyboardEvent('keydown', { key: 'Escape', keyCode: 27, bubbles: true }));
    var feed = document.querySelector(%s);
    if (feed) feed.click();
    return { ok: true };
  } catch (e) { return { ok: false, error: e.message }; }
})();`, jsStr(s.Get(selectors.FriendsFeed)))
}
