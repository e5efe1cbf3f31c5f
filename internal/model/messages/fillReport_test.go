package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestFillReportEncode(t *testing.T) {
	b, err := FillReport{ID: "BIN01", Fill: 42}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := string(b), `{"id":"BIN01","fill":42}`; got != want {
		t.Fatalf("payload = %s, want %s", got, want)
	}

	// any structured reader sees an integer fill
	var generic map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		t.Fatalf("generic decode: %v", err)
	}
	n, ok := generic["fill"].(json.Number)
	if !ok {
		t.Fatalf("fill has type %T", generic["fill"])
	}
	if _, err := n.Int64(); err != nil {
		t.Fatalf("fill %q is not an integer: %v", n, err)
	}
	if generic["id"] != "BIN01" {
		t.Fatalf("id = %v", generic["id"])
	}
}

func TestDecodeFillReport(t *testing.T) {
	got, err := DecodeFillReport([]byte(`{"id":"BIN01", "fill":42}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (FillReport{ID: "BIN01", Fill: 42}) {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeFillReportRejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"id":`,
		"missing id":    `{"fill":10}`,
		"blank id":      `{"id":"  ","fill":10}`,
		"missing fill":  `{"id":"BIN01"}`,
		"float fill":    `{"id":"BIN01","fill":42.5}`,
		"string fill":   `{"id":"BIN01","fill":"42"}`,
		"negative fill": `{"id":"BIN01","fill":-1}`,
		"fill over 100": `{"id":"BIN01","fill":101}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeFillReport([]byte(payload)); !errors.Is(err, ErrInvalidReport) {
				t.Fatalf("expected ErrInvalidReport, got %v", err)
			}
		})
	}
}
