package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/session"
)

func TestRender(t *testing.T) {
	humidity := 55
	wind := 3.1

	tests := []struct {
		name     string
		state    session.State
		contains []string
		excludes []string
	}{
		{
			name:     "idle",
			state:    session.State{},
			contains: []string{"No city selected"},
		},
		{
			name:     "loading",
			state:    session.State{Query: "Tokyo", Status: session.StatusLoading},
			contains: []string{"Loading weather for Tokyo..."},
		},
		{
			name: "failed",
			state: session.State{
				Query:  "Atlantis",
				Status: session.StatusFailed,
				Error:  &service.LookupError{Kind: service.KindNotFound, City: "Atlantis"},
			},
			contains: []string{"Error: city 'Atlantis' not found"},
		},
		{
			name: "success with secondary fields",
			state: session.State{
				Query:  "Tokyo",
				Status: session.StatusSuccess,
				Result: &service.WeatherRecord{
					City:               "Tokyo",
					TemperatureCelsius: 22,
					Description:        "clear sky",
					IconURL:            "https://openweathermap.org/img/wn/01d@2x.png",
					HumidityPercent:    &humidity,
					WindSpeedMs:        &wind,
				},
			},
			contains: []string{"Tokyo", "22 °C", "clear sky", "01d@2x.png", "55%", "3.1 m/s"},
		},
		{
			name: "success without secondary fields",
			state: session.State{
				Status: session.StatusSuccess,
				Result: &service.WeatherRecord{City: "Oslo", TemperatureCelsius: -1, Description: "snow"},
			},
			contains: []string{"Oslo", "-1 °C"},
			excludes: []string{"Humidity", "Wind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.state))

			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
