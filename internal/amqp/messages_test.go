package amqp

import "testing"

func TestSnapshotEventMessageJSON(t *testing.T) {
	msg := NewSnapshotEventMessage(OpUpsert, "2026-08-01")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := SnapshotEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != OpUpsert || got.Date != "2026-08-01" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not carried")
	}
}

func TestSnapshotEventMessageValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  SnapshotEventMessage
		ok   bool
	}{
		{"upsert", SnapshotEventMessage{Op: OpUpsert, Date: "2026-08-01"}, true},
		{"delete", SnapshotEventMessage{Op: OpDelete, Date: "2026-08-01"}, true},
		{"unknown op", SnapshotEventMessage{Op: "merge", Date: "2026-08-01"}, false},
		{"missing date", SnapshotEventMessage{Op: OpUpsert}, false},
	}
	for _, tc := range cases {
		if err := tc.msg.Validate(); (err == nil) != tc.ok {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
	}
}

func TestSnapshotEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := SnapshotEventMessageFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := SnapshotEventMessageFromJSON([]byte(`{"op":"merge","date":"2026-08-01"}`)); err == nil {
		t.Fatalf("expected error for unknown op")
	}
}
