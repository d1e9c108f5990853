package service

import "testing"

func TestParseScriptPayloadValidJSON(t *testing.T) {
	raw := `{"hook": "Stop scrolling!", "content": "Here are 5 tips.", "cta": "Follow for more", "duration": 45}`

	payload := ParseScriptPayload(raw)
	if payload.Hook != "Stop scrolling!" {
		t.Errorf("Hook = %q", payload.Hook)
	}
	if payload.Content != "Here are 5 tips." {
		t.Errorf("Content = %q", payload.Content)
	}
	if payload.CTA != "Follow for more" {
		t.Errorf("CTA = %q", payload.CTA)
	}
	if payload.Duration != 45 {
		t.Errorf("Duration = %d", payload.Duration)
	}
}

func TestParseScriptPayloadStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"hook\": \"h\", \"content\": \"c\", \"cta\": \"cta\", \"duration\": 30}\n```"

	payload := ParseScriptPayload(raw)
	if payload.Hook != "h" || payload.Content != "c" || payload.CTA != "cta" || payload.Duration != 30 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestParseScriptPayloadFallbackSentenceSplit(t *testing.T) {
	raw := "Did you know this one trick? It saves hours every week. Follow for more tips!"

	payload := ParseScriptPayload(raw)
	if payload.Hook != "Did you know this one trick" {
		t.Errorf("Hook = %q", payload.Hook)
	}
	if payload.CTA != "Follow for more tips" {
		t.Errorf("CTA = %q", payload.CTA)
	}
	if payload.Content != raw {
		t.Errorf("Content = %q, want raw text", payload.Content)
	}
	if payload.Duration != 60 {
		t.Errorf("Duration = %d, want fallback 60", payload.Duration)
	}
}

func TestParseScriptPayloadDefaultsDuration(t *testing.T) {
	raw := `{"hook": "h", "content": "c", "cta": "cta"}`

	payload := ParseScriptPayload(raw)
	if payload.Duration != 60 {
		t.Errorf("Duration = %d, want default 60", payload.Duration)
	}
}
