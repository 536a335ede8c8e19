package types

import (
	"reflect"
	"testing"
)

func TestSelectedChatsSlice(t *testing.T) {
	roster := []string{"Alice", "Bob", "Carol"}
	tests := []struct {
		name     string
		selected SelectedChats
		expected []string
	}{
		{"all mode", SelectedChats{Mode: SelectionModeAll}, []string{"Alice", "Bob", "Carol"}},
		{"empty mode", SelectedChats{}, []string{"Alice", "Bob", "Carol"}},
		{"range 2-3", SelectedChats{Mode: SelectionModeRange, From: 2, To: 3}, []string{"Bob", "Carol"}},
		{"range 1-1", SelectedChats{Mode: SelectionModeRange, From: 1, To: 1}, []string{"Alice"}},
		{"range clamps to roster", SelectedChats{Mode: SelectionModeRange, From: 2, To: 100}, []string{"Bob", "Carol"}},
		{"range below one", SelectedChats{Mode: SelectionModeRange, From: 0, To: 2}, []string{"Alice", "Bob"}},
		{"range past end", SelectedChats{Mode: SelectionModeRange, From: 5, To: 9}, []string{}},
		{"inverted range", SelectedChats{Mode: SelectionModeRange, From: 3, To: 2}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.selected.Slice(roster)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSelectedChatsSliceEmptyRoster(t *testing.T) {
	s := SelectedChats{Mode: SelectionModeRange, From: 1, To: 10}
	if got := s.Slice(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
