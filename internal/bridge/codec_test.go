package bridge

import (
	"errors"
	"testing"

	"github.com/editkit/tsbridge/internal/protocol"
)

func TestToWorkerLocation(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		col     int
		want    protocol.Location
		wantErr bool
	}{
		{name: "origin", line: 0, col: 0, want: protocol.Location{Line: 1, Offset: 1}},
		{name: "interior", line: 12, col: 4, want: protocol.Location{Line: 13, Offset: 5}},
		{name: "negative line", line: -1, col: 0, wantErr: true},
		{name: "negative col", line: 0, col: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toWorkerLocation(tt.line, tt.col)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("got err %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromWorkerLocationClamps(t *testing.T) {
	tests := []struct {
		name     string
		loc      protocol.Location
		wantLine int
		wantCol  int
	}{
		{name: "origin", loc: protocol.Location{Line: 1, Offset: 1}, wantLine: 0, wantCol: 0},
		{name: "interior", loc: protocol.Location{Line: 13, Offset: 5}, wantLine: 12, wantCol: 4},
		{name: "zero clamps", loc: protocol.Location{Line: 0, Offset: 0}, wantLine: 0, wantCol: 0},
		{name: "negative clamps", loc: protocol.Location{Line: -5, Offset: -2}, wantLine: 0, wantCol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := fromWorkerLocation(tt.loc)
			if line != tt.wantLine || col != tt.wantCol {
				t.Errorf("got %d:%d, want %d:%d", line, col, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestRangeRoundTrip(t *testing.T) {
	start, end, err := toWorkerRange(3, 7, 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sl, sc, el, ec := fromWorkerRange(start, end)
	if sl != 3 || sc != 7 || el != 5 || ec != 0 {
		t.Errorf("round trip got %d:%d-%d:%d, want 3:7-5:0", sl, sc, el, ec)
	}
}
