package export

import (
	"errors"
	"testing"
)

func mustDecode(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := Decode("conversations.json", []byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func TestWalk_GraphShapeUserOnly(t *testing.T) {
	doc := mustDecode(t, `[{
		"title": "chat",
		"mapping": {
			"root": {"id": "root", "message": null},
			"sys":  {"message": {"author": {"role": "system"}, "create_time": 1735689600, "content": {"parts": ["system prompt"]}}},
			"u1":   {"message": {"author": {"role": "user"}, "create_time": 1735689600.5, "content": {"content_type": "text", "parts": ["first", "  ", "second"]}}},
			"a1":   {"message": {"author": {"role": "assistant"}, "create_time": 1735689601, "content": {"parts": ["answer"]}}},
			"tool": {"message": {"author": {"role": "tool"}, "content": {"parts": ["tool output"]}}},
			"u2":   {"message": {"author": {"role": "user"}, "create_time": 1735689700, "content": {"parts": [{"asset_pointer": "file-1"}, "with image"]}}}
		}
	}]`)

	recs, err := Walk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"first", "second", "with image"}
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(recs), recs)
	}
	for i, w := range want {
		if recs[i].Text != w {
			t.Errorf("record %d: expected %q, got %q", i, w, recs[i].Text)
		}
	}
	if recs[0].Timestamp != 1735689600.5 || recs[1].Timestamp != 1735689600.5 {
		t.Errorf("expected parts to share the node timestamp, got %v %v", recs[0].Timestamp, recs[1].Timestamp)
	}
}

func TestWalk_GraphShapeUndatedStillEmitted(t *testing.T) {
	doc := mustDecode(t, `[{"mapping": {
		"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["no time"]}}},
		"b": {"message": {"author": {"role": "user"}, "create_time": 0, "content": {"parts": ["zero time"]}}},
		"c": {"message": {"author": {"role": "user"}, "create_time": null, "content": {"parts": ["null time"]}}},
		"d": {"message": {"author": {"role": "user"}, "create_time": "1735689600", "content": {"parts": ["string time"]}}},
		"e": {"message": {"author": {"role": "user"}, "create_time": true, "content": {"parts": ["bad time"]}}}
	}}]`)

	recs, err := Walk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(recs), recs)
	}
	for i := 0; i < 3; i++ {
		if recs[i].Dated() {
			t.Errorf("record %q should be undated", recs[i].Text)
		}
	}
	if !recs[3].Dated() || recs[3].Timestamp != 1735689600 {
		t.Errorf("expected numeric string timestamp parsed, got %+v", recs[3])
	}
}

func TestWalk_FlatShapeRequiresTextAndTimestamp(t *testing.T) {
	doc := mustDecode(t, `[[
		{"role": "user", "content": "dated content", "create_time": 1735689600},
		{"role": "user", "text": "dated text", "timestamp": 1735689700},
		{"role": "user", "content": "no timestamp"},
		{"role": "user", "content": "zero timestamp", "create_time": 0},
		{"role": "user", "content": "   ", "create_time": 1735689600},
		{"role": "assistant", "content": "reply", "create_time": 1735689600},
		{"role": "user", "content": {"parts": ["structured"]}, "create_time": 1735689600},
		"not an object"
	]]`)

	recs, err := Walk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(recs), recs)
	}
	if recs[0].Text != "dated content" || recs[1].Text != "dated text" {
		t.Errorf("unexpected records: %+v", recs)
	}
	if recs[1].Timestamp != 1735689700 {
		t.Errorf("expected timestamp fallback, got %v", recs[1].Timestamp)
	}
}

func TestWalk_MixedShapesAndJunk(t *testing.T) {
	doc := mustDecode(t, `[
		42,
		"junk",
		{"title": "no mapping"},
		{"mapping": "not an object"},
		[{"role": "user", "content": "flat", "create_time": 1}],
		{"mapping": {"n": {"message": {"author": {"role": "user"}, "create_time": 2, "content": {"parts": ["graph"]}}}}}
	]`)

	convs := Conversations(doc.Root)
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].Shape() != ShapeFlat || convs[1].Shape() != ShapeGraph {
		t.Errorf("unexpected shapes %s, %s", convs[0].Shape(), convs[1].Shape())
	}

	recs, err := Walk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].Text != "flat" || recs[1].Text != "graph" {
		t.Errorf("unexpected records: %+v", recs)
	}
}

func TestWalk_TopLevelObjects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "single graph conversation",
			raw:  `{"mapping": {"n": {"message": {"author": {"role": "user"}, "content": {"parts": ["hi"]}}}}}`,
			want: 1,
		},
		{
			name: "wrapped conversation list",
			raw:  `{"version": 2, "conversations": [{"mapping": {"n": {"message": {"author": {"role": "user"}, "content": {"parts": ["a", "b"]}}}}}]}`,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Walk(mustDecode(t, tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(recs) != tt.want {
				t.Errorf("expected %d records, got %d", tt.want, len(recs))
			}
		})
	}
}

func TestWalk_NoPrompts(t *testing.T) {
	tests := []string{
		`[]`,
		`{}`,
		`"just a string"`,
		`[{"mapping": {"a": {"message": {"author": {"role": "assistant"}, "create_time": 1, "content": {"parts": ["only assistant"]}}}}}]`,
	}
	for _, raw := range tests {
		_, err := Walk(mustDecode(t, raw))
		if !errors.Is(err, ErrNoPrompts) {
			t.Errorf("%s: expected ErrNoPrompts, got %v", raw, err)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode("conversations.json", []byte(`{"mapping": [`)); !errors.Is(err, ErrMalformedJSON) {
		t.Errorf("expected ErrMalformedJSON, got %v", err)
	}
}
