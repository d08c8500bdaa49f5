package entity

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewWeatherRecord(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	record := NewWeatherRecord("São Paulo", 25.5, 65, 12.3, 0, at)

	want := WeatherRecord{
		City:        "São Paulo",
		Temperature: 25.5,
		Humidity:    65,
		WindSpeed:   12.3,
		Condition:   "Clear sky",
		Timestamp:   "2024-01-01T12:00:00Z",
	}
	if record != want {
		t.Fatalf("NewWeatherRecord() = %+v, want %+v", record, want)
	}
}

func TestWeatherRecordWireFormat(t *testing.T) {
	record := NewWeatherRecord("Test City", 20, DefaultHumidity, 10, 42, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	body, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	wantKeys := []string{"city", "condition", "humidity", "temperature", "timestamp", "windSpeed"}
	if len(fields) != len(wantKeys) {
		t.Fatalf("wire fields = %v, want exactly %v", fields, wantKeys)
	}
	for _, key := range wantKeys {
		if _, ok := fields[key]; !ok {
			t.Fatalf("wire body %s misses %q", body, key)
		}
	}
	if fields["condition"] != UnknownCondition {
		t.Fatalf("condition = %v, want %q", fields["condition"], UnknownCondition)
	}

	var decoded WeatherRecord
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, record) {
		t.Fatalf("round trip = %+v, want %+v", decoded, record)
	}
}
