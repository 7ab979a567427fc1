package llm

import (
	"strings"
	"testing"
)

func TestDecodeLLMJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", `{"tasks":[{"task":"a"}]}`, false},
		{"code fence", "```json\n{\"tasks\":[{\"task\":\"a\"}]}\n```", false},
		{"bare fence", "```\n{\"tasks\":[{\"task\":\"a\"}]}\n```", false},
		{"leading prose", "Here are the tasks:\n{\"tasks\":[{\"task\":\"a\"}]}\nThanks!", false},
		{"empty", "   ", true},
		{"garbage", "no json here", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Tasks []struct {
					Task string `json:"task"`
				} `json:"tasks"`
			}
			err := DecodeLLMJSON(tt.content, &out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON returned error: %v", err)
			}
			if len(out.Tasks) != 1 || out.Tasks[0].Task != "a" {
				t.Fatalf("unexpected decode result %+v", out)
			}
		})
	}
}

func TestSummarizePayloadSnippet(t *testing.T) {
	if got := SummarizePayload(""); got != "<empty>" {
		t.Fatalf("unexpected empty snippet %q", got)
	}
	if got := SummarizePayload("a\n\tb   c"); got != "a b c" {
		t.Fatalf("unexpected collapsed snippet %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := SummarizePayload(long); len(got) != 163 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncated snippet length %d", len(got))
	}
}

func TestCheckHealthPayload(t *testing.T) {
	if err := CheckHealthPayload(`{"ok":true}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckHealthPayload(`{"ok":false}`); err == nil {
		t.Fatal("expected error for ok=false")
	}
	if err := CheckHealthPayload("nope"); err == nil {
		t.Fatal("expected error for non-json")
	}
}
