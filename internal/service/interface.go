package service

import "context"

// WeatherRecord is the normalized result of a successful lookup.
type WeatherRecord struct {
	City               string   `json:"city"`
	TemperatureCelsius int      `json:"temperature_celsius"`
	Description        string   `json:"description"`
	IconURL            string   `json:"icon_url"`
	HumidityPercent    *int     `json:"humidity_percent,omitempty"`
	WindSpeedMs        *float64 `json:"wind_speed_ms,omitempty"`
}

type WeatherService interface {
	// Validate reports the precondition failure Lookup would return for
	// cityName without performing any I/O.
	Validate(cityName string) error
	Lookup(ctx context.Context, cityName string) (*WeatherRecord, error)
	Name() string
}

// MetricsRecorder counts outbound provider calls.
type MetricsRecorder interface {
	RecordWeatherServiceCall(ctx context.Context, service string, statusCode int)
}
