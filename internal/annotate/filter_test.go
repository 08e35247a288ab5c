package annotate

import (
	"testing"

	"github.com/bethropolis/undomark/internal/types"
)

func undoFilter(minSize int) *Filter {
	return NewFilter([]types.CommandID{"undo", "redo"}, minSize)
}

func TestFilterCommandAllowlist(t *testing.T) {
	f := undoFilter(0)

	if !f.Allowed("undo") || !f.Allowed("redo") {
		t.Error("allow-listed commands should be allowed")
	}
	if f.Allowed("self-insert") || f.Allowed(types.None) {
		t.Error("unknown commands should not be allowed")
	}
}

func TestFilterEligible(t *testing.T) {
	f := undoFilter(0)

	tests := []struct {
		name      string
		m         Mutation
		overLimit bool
		want      bool
	}{
		{
			name: "delete under undo",
			m:    Mutation{Span: types.Span{Beg: 3, End: 6}, Command: "undo", Kind: KindDelete},
			want: true,
		},
		{
			name: "insert under redo",
			m:    Mutation{Span: types.Span{Beg: 5, End: 13}, Command: "redo", Kind: KindInsert},
			want: true,
		},
		{
			name: "non-undo command",
			m:    Mutation{Span: types.Span{Beg: 3, End: 6}, Command: "self-insert", Kind: KindDelete},
			want: false,
		},
		{
			name:      "over budget",
			m:         Mutation{Span: types.Span{Beg: 3, End: 6}, Command: "undo", Kind: KindDelete},
			overLimit: true,
			want:      false,
		},
		{
			name: "replacement never takes the insert path",
			m:    Mutation{Span: types.Span{Beg: 3, End: 6}, Removed: 3, Command: "undo", Kind: KindInsert},
			want: false,
		},
		{
			name: "empty span",
			m:    Mutation{Span: types.Span{Beg: 3, End: 3}, Command: "undo", Kind: KindDelete},
			want: false,
		},
		{
			name: "replacement signal with empty span",
			m:    Mutation{Span: types.Span{Beg: 3, End: 3}, Removed: 3, Command: "undo", Kind: KindInsert},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Eligible(tt.m, tt.overLimit); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMinSize(t *testing.T) {
	f := undoFilter(4)

	small := Mutation{Span: types.Span{Beg: 0, End: 3}, Command: "undo", Kind: KindDelete}
	if f.Eligible(small, false) {
		t.Error("edit below min size should be skipped")
	}

	big := Mutation{Span: types.Span{Beg: 0, End: 4}, Command: "undo", Kind: KindDelete}
	if !f.Eligible(big, false) {
		t.Error("edit at min size should pass")
	}
}
