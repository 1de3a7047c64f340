package homework

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	logx "homeworkbot/pkg/logx"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func TestValidateRejectsMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   any
		want error
	}{
		{name: "nil", in: nil, want: ErrTypeMismatch},
		{name: "list", in: []any{}, want: ErrTypeMismatch},
		{name: "string", in: "homeworks", want: ErrTypeMismatch},
		{name: "number", in: json.Number("1"), want: ErrTypeMismatch},
		{name: "bool", in: true, want: ErrTypeMismatch},
		{name: "empty map", in: map[string]any{}, want: ErrEmptyPayload},
		{name: "no homeworks", in: map[string]any{"current_date": json.Number("1")}, want: ErrMissingKey},
		{name: "homeworks object", in: map[string]any{"homeworks": map[string]any{"a": 1}}, want: ErrTypeMismatch},
		{name: "homeworks string", in: map[string]any{"homeworks": "[]"}, want: ErrTypeMismatch},
		{name: "homeworks null", in: map[string]any{"homeworks": nil}, want: ErrTypeMismatch},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			got, err := Validate(logx.NewWriter(&buf, "debug"), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want kind %v", err, KindOf(tt.want))
			}
			if got != nil {
				t.Fatalf("expected nil result, got %v", got)
			}
			if !strings.Contains(buf.String(), KindOf(tt.want).String()) {
				t.Fatalf("rejection was not logged with its kind: %s", buf.String())
			}
		})
	}
}

func TestValidateAcceptsSequences(t *testing.T) {
	t.Parallel()
	resp := decode(t, `{"homeworks":[{"homework_name":"lab2","status":"rejected"}],"current_date":1700000100}`)
	got, err := Validate(logx.Nop(), resp)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(got) != 1 || Name(got[0]) != "lab2" {
		t.Fatalf("unexpected homeworks: %v", got)
	}

	empty, err := Validate(logx.Nop(), decode(t, `{"homeworks":[],"current_date":1700000200}`))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty sequence should be valid: %v %v", empty, err)
	}
}

func TestValidateIsStable(t *testing.T) {
	t.Parallel()
	bad := map[string]any{"current_date": json.Number("5")}
	for i := 0; i < 3; i++ {
		if _, err := Validate(logx.Nop(), bad); KindOf(err) != KindMissingKey {
			t.Fatalf("iteration %d: kind = %v", i, KindOf(err))
		}
	}
}

func TestCurrentDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{name: "json number", in: decode(t, `{"current_date":1700000100}`), want: 1700000100, ok: true},
		{name: "float", in: map[string]any{"current_date": float64(42)}, want: 42, ok: true},
		{name: "fractional", in: map[string]any{"current_date": 4.5}},
		{name: "string", in: map[string]any{"current_date": "1700000100"}},
		{name: "absent", in: map[string]any{"homeworks": []any{}}},
		{name: "nil response", in: nil},
	}
	for _, tt := range tests {
		got, ok := CurrentDate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("%s: CurrentDate = %d,%v want %d,%v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status string
		want   string
	}{
		{StatusApproved, `Изменился статус проверки работы "lab1". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{StatusReviewing, `Изменился статус проверки работы "lab1". Работа взята на проверку ревьюером.`},
		{StatusRejected, `Изменился статус проверки работы "lab1". Работа проверена: у ревьюера есть замечания.`},
	}
	for _, tt := range tests {
		got, err := Format(map[string]any{"homework_name": "lab1", "status": tt.status})
		if err != nil {
			t.Fatalf("Format(%s): %v", tt.status, err)
		}
		if got != tt.want {
			t.Fatalf("Format(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFormatRejectsBadRecords(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{name: "nil", in: nil, want: KindMissingField},
		{name: "empty", in: map[string]any{}, want: KindMissingField},
		{name: "not a map", in: "lab1", want: KindMissingField},
		{name: "no name", in: map[string]any{"status": "approved"}, want: KindMissingField},
		{name: "empty name", in: map[string]any{"homework_name": "", "status": "approved"}, want: KindMissingField},
		{name: "bogus status", in: map[string]any{"homework_name": "lab1", "status": "bogus"}, want: KindUnknownStatus},
		{name: "no status", in: map[string]any{"homework_name": "lab1"}, want: KindUnknownStatus},
		{name: "numeric status", in: map[string]any{"homework_name": "lab1", "status": json.Number("1")}, want: KindUnknownStatus},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, err := Format(tt.in)
			if KindOf(err) != tt.want {
				t.Fatalf("kind = %v (%v), want %v", KindOf(err), err, tt.want)
			}
			if msg != "" {
				t.Fatalf("expected empty message, got %q", msg)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	t.Parallel()
	_, err := Format(nil)
	wrapped := errors.Join(errors.New("iteration"), err)
	if KindOf(wrapped) != KindMissingField {
		t.Fatalf("KindOf(wrapped) = %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindNone {
		t.Fatal("plain error should have no kind")
	}
	if !errors.Is(wrapped, ErrMissingField) || errors.Is(wrapped, ErrUnknownStatus) {
		t.Fatal("errors.Is should compare kinds")
	}
}
