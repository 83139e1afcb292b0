package rpc

import "testing"

type sample struct {
	A int    `json:"a"`
	B string `json:"b"`
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := jsonCodec{}

	want := sample{A: 42, B: "hello"}
	data, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got sample
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestJSONCodec_Name(t *testing.T) {
	if (jsonCodec{}).Name() != "json" {
		t.Errorf("expected codec name 'json', got %s", (jsonCodec{}).Name())
	}
}
