package external

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestForecastResponseValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "complete", body: `{"current_weather": {"temperature": 0, "windspeed": 0, "weathercode": 0, "time": "2024-01-01T12:00"}}`},
		{name: "no current weather", body: `{"hourly": {"time": []}}`, wantErr: true},
		{name: "no temperature", body: `{"current_weather": {"windspeed": 1, "weathercode": 0, "time": "2024-01-01T12:00"}}`, wantErr: true},
		{name: "no time", body: `{"current_weather": {"temperature": 1, "windspeed": 1, "weathercode": 0}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response ForecastResponse
			if err := json.Unmarshal([]byte(tt.body), &response); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}

			err := response.Validate()
			if tt.wantErr != errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	var missing *ForecastResponse
	if err := missing.Validate(); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("nil Validate() error = %v", err)
	}
}
