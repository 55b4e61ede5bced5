package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/testutils"
)

// mockClassifiedError implements ClassifiedError for testing
type mockClassifiedError struct {
	message   string
	code      string
	retryable bool
	context   map[string]string
	timestamp time.Time
}

func (m *mockClassifiedError) Error() string                  { return m.message }
func (m *mockClassifiedError) GetCode() string                { return m.code }
func (m *mockClassifiedError) IsRetryable() bool              { return m.retryable }
func (m *mockClassifiedError) GetContext() map[string]string  { return m.context }
func (m *mockClassifiedError) GetTimestamp() time.Time        { return m.timestamp }

// mockLogger captures log calls for assertion
type mockLogger struct {
	infoCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg    string
	fields []interface{}
}

func (m *mockLogger) Debug(msg string, fields ...interface{}) {}
func (m *mockLogger) Warn(msg string, fields ...interface{})  {}

func (m *mockLogger) Info(msg string, fields ...interface{}) {
	m.infoCalls = append(m.infoCalls, logCall{msg: msg, fields: fields})
}

func (m *mockLogger) Error(msg string, fields ...interface{}) {
	m.errorCalls = append(m.errorCalls, logCall{msg: msg, fields: fields})
}

func TestDefaultLogger_ProducesValidJSON(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(log.Writer())

	logger := NewDefaultLogger()
	logger.Info("session clocked in", "user", "local", "minutes", 42)

	line := strings.TrimSpace(buf.String())
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v\noutput: %s", err, line)
	}

	if entry.Level != "INFO" {
		t.Errorf("level = %q, want INFO", entry.Level)
	}
	if entry.Message != "session clocked in" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["user"] != "local" {
		t.Errorf("fields = %v, missing user", entry.Fields)
	}
}

func TestFieldsToMap(t *testing.T) {
	tests := []struct {
		name   string
		fields []interface{}
		want   map[string]interface{}
	}{
		{
			name:   "pairs",
			fields: []interface{}{"a", 1, "b", "two"},
			want:   map[string]interface{}{"a": 1, "b": "two"},
		},
		{
			name:   "odd trailing field",
			fields: []interface{}{"a", 1, "orphan"},
			want:   map[string]interface{}{"a": 1, "field_1": "orphan"},
		},
		{
			name:   "non-string key",
			fields: []interface{}{42, "value"},
			want:   map[string]interface{}{"field_0": 42, "field_0_value": "value"},
		},
		{
			name:   "empty",
			fields: nil,
			want:   map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldsToMap(tt.fields)
			if len(got) != len(tt.want) {
				t.Fatalf("fieldsToMap() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("fieldsToMap()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestLogError_ClassifiedErrorFields(t *testing.T) {
	ml := &mockLogger{}
	ce := &mockClassifiedError{
		message:   "database is locked",
		code:      "BUSY",
		retryable: true,
		context:   map[string]string{"session_id": "s1"},
		timestamp: time.Now(),
	}

	LogError(ml, ce, "UpdateSession", map[string]interface{}{"user": "local"})

	if len(ml.errorCalls) != 1 {
		t.Fatalf("expected 1 error call, got %d", len(ml.errorCalls))
	}

	fields := testutils.FieldsToMap(t, ml.errorCalls[0].fields)
	if fields["error_code"] != "BUSY" {
		t.Errorf("error_code = %v", fields["error_code"])
	}
	if fields["retryable"] != true {
		t.Errorf("retryable = %v", fields["retryable"])
	}
	if fields["session_id"] != "s1" {
		t.Errorf("context field missing, fields = %v", fields)
	}
	if fields["user"] != "local" {
		t.Errorf("extra context missing, fields = %v", fields)
	}
}

func TestLogError_PlainError(t *testing.T) {
	ml := &mockLogger{}
	LogError(ml, errors.New("boom"), "ClockOut", nil)

	if len(ml.errorCalls) != 1 {
		t.Fatalf("expected 1 error call, got %d", len(ml.errorCalls))
	}
	fields := testutils.FieldsToMap(t, ml.errorCalls[0].fields)
	if fields["operation"] != "ClockOut" {
		t.Errorf("operation = %v", fields["operation"])
	}
	if _, ok := fields["error_type"]; !ok {
		t.Error("plain errors should record error_type")
	}
}

func TestLogOperation(t *testing.T) {
	ml := &mockLogger{}
	LogOperation(ml, "CreateSession", 25*time.Millisecond, map[string]interface{}{"session_id": "s1"})

	if len(ml.infoCalls) != 1 {
		t.Fatalf("expected 1 info call, got %d", len(ml.infoCalls))
	}
	fields := testutils.FieldsToMap(t, ml.infoCalls[0].fields)
	if fields["duration_ms"] != int64(25) {
		t.Errorf("duration_ms = %v", fields["duration_ms"])
	}
}
