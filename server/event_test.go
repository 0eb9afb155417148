package server

import (
	"encoding/json"
	"testing"
)

func TestDecodeMovePayload(t *testing.T) {
	raw := []byte(`{"name":"playerMove","data":{"deltaX":5,"deltaY":-3.5}}`)
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if e.Name != EvPlayerMove {
		t.Fatalf("name = %q", e.Name)
	}
	var mp MovePayload
	if err := decodePayload(e.Data, &mp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if mp.DeltaX != 5 || mp.DeltaY != -3.5 {
		t.Fatalf("payload = %+v", mp)
	}
}

func TestDecodeMovePayloadWrongShape(t *testing.T) {
	raw := []byte(`{"name":"playerMove","data":{"deltaX":"fast","deltaY":0}}`)
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var mp MovePayload
	if err := decodePayload(e.Data, &mp); err == nil {
		t.Fatalf("expected decode error for string deltaX")
	}
}

func TestDecodeAvatarPayload(t *testing.T) {
	raw := []byte(`{"name":"updateAvatar","data":{"body":"tan","hair":"blue","clothes":"red","accessories":"hat","character":"Adam"}}`)
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var av Avatar
	if err := decodePayload(e.Data, &av); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	want := Avatar{Body: "tan", Hair: "blue", Clothes: "red", Accessories: "hat", Character: "Adam"}
	if av != want {
		t.Fatalf("avatar = %+v, want %+v", av, want)
	}
	if !av.Valid() {
		t.Fatalf("decoded avatar should be valid")
	}
}

func TestDecodeSignalPayload(t *testing.T) {
	raw := []byte(`{"name":"offer","data":{"targetId":"peer-2","offer":{"type":"offer","sdp":"v=0"}}}`)
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var sp SignalPayload
	if err := decodePayload(e.Data, &sp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if sp.TargetID != "peer-2" {
		t.Fatalf("targetId = %q", sp.TargetID)
	}
	if sp.Offer == nil {
		t.Fatalf("opaque offer payload lost")
	}
}

func TestDecodeTogglePayload(t *testing.T) {
	raw := []byte(`{"name":"toggleVideo","data":{"enabled":false}}`)
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var tp TogglePayload
	if err := decodePayload(e.Data, &tp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if tp.Enabled {
		t.Fatalf("enabled should be false")
	}
}

// 出站事件的 JSON 字段名是协议的一部分
func TestEncodeMovedPayloadFieldNames(t *testing.T) {
	b, err := encodeEvent(Event{Name: EvPlayerMoved, Data: MovedPayload{ID: "p1", X: 105, Y: 100}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out struct {
		Name string         `json:"name"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if out.Name != "playerMoved" {
		t.Fatalf("name = %q", out.Name)
	}
	for _, key := range []string{"id", "x", "y"} {
		if _, ok := out.Data[key]; !ok {
			t.Fatalf("missing field %q in %v", key, out.Data)
		}
	}
}
