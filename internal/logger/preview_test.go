package logger

import "testing"

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: `{"error":"boom"}`, limit: 0, expect: ""},
		{name: "short body", input: `{"error":"boom"}`, limit: 64, expect: `{"error":"boom"}`},
		{name: "long body", input: "Internal Server Error", limit: 8, expect: "Internal..."},
		{name: "html page", input: "<html>\n  <body>\n\tBad Gateway\n  </body>\n</html>\n", limit: 64, expect: "<html> <body> Bad Gateway </body> </html>"},
		{name: "multibyte", input: "ошибка сервера", limit: 6, expect: "ошибка..."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Preview(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
