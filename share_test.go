package conceptcard

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"strings"
	"testing"
)

func TestShareState_RoundTrip(t *testing.T) {
	state := ShareableState{Concept: "熵 Entropy", Analysis: sampleAnalysis("entropy")}

	token, err := EncodeShareState(state)
	if err != nil {
		t.Fatalf("EncodeShareState failed: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token should be URL-safe without padding: %q", token)
	}

	decoded, ok := DecodeShareState(token)
	if !ok {
		t.Fatal("DecodeShareState failed")
	}
	if decoded.Concept != state.Concept {
		t.Errorf("concept = %q, want %q", decoded.Concept, state.Concept)
	}
	if decoded.Analysis != state.Analysis {
		t.Errorf("analysis changed in round trip:\n got %+v\nwant %+v", decoded.Analysis, state.Analysis)
	}
}

func TestShareState_RoundTripIsExact(t *testing.T) {
	partial := ShareableState{Concept: "Entropy"}
	partial.Analysis.Why.Content = BilingualText{EN: "only en"}
	partial.Analysis.What.CoreComponents.Title = BilingualText{ZH: "核心"}

	states := map[string]ShareableState{
		"zero analysis": {Concept: "Entropy"},
		"empty concept": {Concept: "", Analysis: sampleAnalysis("entropy")},
		"zero state":    {},
		"partial text":  partial,
	}
	for name, state := range states {
		token, err := EncodeShareState(state)
		if err != nil {
			t.Fatalf("%s: EncodeShareState failed: %v", name, err)
		}
		decoded, ok := DecodeShareState(token)
		if !ok {
			t.Errorf("%s: DecodeShareState returned no state", name)
			continue
		}
		if *decoded != state {
			t.Errorf("%s: round trip changed state:\n got %+v\nwant %+v", name, *decoded, state)
		}
	}
}

func TestDecodeShareState_StandardAlphabetAndPadding(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte(`{"concept":"Entropy","analysis":{"why":{"content":{"en":"disorder"}}}}`))
	zw.Close()

	token := base64.StdEncoding.EncodeToString(buf.Bytes())
	decoded, ok := DecodeShareState(token)
	if !ok {
		t.Fatal("expected padded standard base64 to decode")
	}
	if decoded.Analysis.Why.Content.EN != "disorder" || decoded.Analysis.Why.Content.ZH != "" {
		t.Errorf("analysis should come back untouched, got %+v", decoded.Analysis.Why)
	}
}

func TestDecodeShareState_FailsClosed(t *testing.T) {
	notZlib := base64.RawURLEncoding.EncodeToString([]byte("plain text"))

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte(`not json`))
	zw.Close()
	notJSON := base64.RawURLEncoding.EncodeToString(buf.Bytes())

	buf.Reset()
	zw = zlib.NewWriter(&buf)
	zw.Write([]byte(`{"concept":"x","analysis":{"why":"flat"}}`))
	zw.Close()
	wrongShape := base64.RawURLEncoding.EncodeToString(buf.Bytes())

	truncated := notJSON[:len(notJSON)/2]

	for _, token := range []string{"", "!!!", "abc$", notZlib, notJSON, wrongShape, truncated} {
		if state, ok := DecodeShareState(token); ok || state != nil {
			t.Errorf("%q: expected failure, got %+v", token, state)
		}
	}
}

func TestDecodeShareState_SizeCap(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte(`{"concept":"x","analysis":{"why":"`))
	zw.Write(bytes.Repeat([]byte("a"), maxShareStateSize))
	zw.Write([]byte(`"}}`))
	zw.Close()

	if _, ok := DecodeShareState(base64.RawURLEncoding.EncodeToString(buf.Bytes())); ok {
		t.Error("oversized payload should be rejected")
	}
}
