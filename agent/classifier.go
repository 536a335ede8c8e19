package agent

import (
	"strings"

	"github.com/AMCarbonaro/snapbot/types"
)

// MessageClassifier interprets an extracted message snapshot. The
// default implementation is a best-effort heuristic tuned to one
// external page's markup; it is an interface so tests and future page
// revisions can swap it without touching the engine.
type MessageClassifier interface {
	// FromSelf reports whether the last message was sent by the local
	// user.
	FromSelf(snap types.MessageSnapshot) bool
	// EmptyChat reports whether the conversation has no usable text to
	// reply to (brand-new chat or extraction found nothing).
	EmptyChat(snap types.MessageSnapshot) bool
	// SnapOnly reports whether the conversation currently holds only
	// ephemeral media, where generating from text makes no sense.
	SnapOnly(snap types.MessageSnapshot) bool
}

type heuristicClassifier struct{}

// NewHeuristicClassifier returns the default page-tuned classifier.
func NewHeuristicClassifier() MessageClassifier {
	return heuristicClassifier{}
}

func (heuristicClassifier) FromSelf(snap types.MessageSnapshot) bool {
	return snap.LastFromMe
}

func (heuristicClassifier) EmptyChat(snap types.MessageSnapshot) bool {
	return strings.TrimSpace(snap.LastText) == "" || snap.IsNewChat || len(snap.Recent) == 0
}

func (heuristicClassifier) SnapOnly(snap types.MessageSnapshot) bool {
	return snap.IsNewSnap && strings.TrimSpace(snap.LastText) == ""
}
