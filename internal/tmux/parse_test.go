package tmux

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestParsePaneID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"%0", "%0", false},
		{"%12\n", "%12", false},
		{"", "", true},
		{"%", "", true},
		{"12", "", true},
		{"%ab", "", true},
	}

	for _, tt := range tests {
		got, err := parsePaneID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePaneID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parsePaneID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseWindowSize(t *testing.T) {
	tests := []struct {
		in       string
		wantCols int
		wantRows int
		wantErr  bool
	}{
		{"160 45", 160, 45, false},
		{" 80\t24 ", 80, 24, false},
		{"160", 0, 0, true},
		{"160 45 3", 0, 0, true},
		{"wide 45", 0, 0, true},
		{"0 45", 0, 0, true},
	}

	for _, tt := range tests {
		cols, rows, err := parseWindowSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWindowSize(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnexpectedOutput) {
			t.Errorf("parseWindowSize(%q) err = %v, want ErrUnexpectedOutput", tt.in, err)
		}
		if cols != tt.wantCols || rows != tt.wantRows {
			t.Errorf("parseWindowSize(%q) = %d,%d, want %d,%d", tt.in, cols, rows, tt.wantCols, tt.wantRows)
		}
	}
}

func TestParseTTY(t *testing.T) {
	if tty, err := parseTTY("/dev/pts/3"); err != nil || tty != "/dev/pts/3" {
		t.Errorf("parseTTY(/dev/pts/3) = %q, %v", tty, err)
	}
	for _, bad := range []string{"", "pts/3", "/dev/pts/3 /dev/pts/4"} {
		if _, err := parseTTY(bad); err == nil {
			t.Errorf("parseTTY(%q) should fail", bad)
		}
	}
}

func TestParseTTYList(t *testing.T) {
	ttys, err := parseTTYList("")
	if err != nil || len(ttys) != 0 {
		t.Errorf("parseTTYList(\"\") = %v, %v; want empty", ttys, err)
	}
	if _, err := parseTTYList("/dev/pts/1\nerror: something\n"); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestParsePaneList(t *testing.T) {
	out := "%0\t1\t40\t45\tlist\n%4\t0\t60\t45\tprimary\n%9\t0\t58\t45\t\n"
	panes, err := parsePaneList(out)
	if err != nil {
		t.Fatalf("parsePaneList: %v", err)
	}
	want := []PaneInfo{
		{ID: "%0", Active: true, Width: 40, Height: 45, Role: "list"},
		{ID: "%4", Active: false, Width: 60, Height: 45, Role: "primary"},
		{ID: "%9", Active: false, Width: 58, Height: 45, Role: ""},
	}
	if !reflect.DeepEqual(panes, want) {
		t.Errorf("panes = %+v, want %+v", panes, want)
	}

	if _, err := parsePaneList("%0\t1\t40\n"); err == nil {
		t.Error("expected error for short line")
	}
}
