package engine

import "testing"

func TestScanJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};var x = 2;`, `{"a":1}`},
		{"nested", `{"a":{"b":[{"c":1}]}} trailing`, `{"a":{"b":[{"c":1}]}}`},
		{"leading space", "  \n{\"a\":1}", `{"a":1}`},
		{"brace in string", `{"t":"}{"}rest`, `{"t":"}{"}`},
		{"escaped quote", `{"t":"say \"}\" now"};`, `{"t":"say \"}\" now"}`},
		{"escaped backslash", `{"t":"c:\\"}x`, `{"t":"c:\\"}`},
		{"unterminated", `{"a":{"b":1}`, ""},
		{"not an object", `[1,2]`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(ScanJSONObject([]byte(tt.in))); got != tt.want {
				t.Errorf("ScanJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanJSONAfter(t *testing.T) {
	src := []byte(`<script>var ytInitialData = {"contents":{"x":"};"}};</script>`)
	if got := string(ScanJSONAfter(src, "var ytInitialData = ")); got != `{"contents":{"x":"};"}}` {
		t.Errorf("ScanJSONAfter() = %q", got)
	}
	if got := ScanJSONAfter(src, "ytInitialPlayerResponse = "); got != nil {
		t.Errorf("ScanJSONAfter() missing marker = %q, want nil", got)
	}
}
