package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vzahanych/city-weather/internal/config"
	"github.com/vzahanych/city-weather/pkg/telemetry"
	"go.uber.org/zap"
)

// Values shipped in sample .env files that must never reach the provider.
var placeholderKeys = map[string]struct{}{
	"your_api_key_here": {},
	"YOUR_API_KEY":      {},
	"changeme":          {},
}

type OpenWeatherService struct {
	baseURL     string
	apiKey      string
	lang        string
	iconBaseURL string
	iconSuffix  string
	client      *http.Client
	logger      *zap.Logger
	tele        *telemetry.Telemetry
	metrics     MetricsRecorder
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func NewOpenWeatherServiceWithConfig(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherService {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenWeatherService{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		lang:        cfg.Lang,
		iconBaseURL: cfg.IconBaseURL,
		iconSuffix:  cfg.IconSuffix,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tele:   tele,
	}
}

// SetMetricsRecorder sets the recorder notified after every provider call.
func (s *OpenWeatherService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

func (s *OpenWeatherService) Name() string {
	return "openweathermap"
}

func (s *OpenWeatherService) Validate(cityName string) error {
	if _, placeholder := placeholderKeys[s.apiKey]; s.apiKey == "" || placeholder {
		return &LookupError{Kind: KindMissingCredential}
	}
	if strings.TrimSpace(cityName) == "" {
		return &LookupError{Kind: KindEmptyQuery}
	}
	return nil
}

func (s *OpenWeatherService) Lookup(ctx context.Context, cityName string) (*WeatherRecord, error) {
	query := strings.TrimSpace(cityName)

	ctx, span := s.tele.StartSpanWithAttributes(ctx, "openweather.Lookup", map[string]interface{}{
		"city":    query,
		"service": s.Name(),
	})
	defer span.End()

	record, err := s.lookup(ctx, cityName, query)
	if err != nil {
		lerr := AsLookupError(err)
		s.tele.RecordError(ctx, lerr, map[string]interface{}{
			"success":    false,
			"error.kind": lerr.Kind.String(),
		})

		s.logger.Warn("Weather lookup failed",
			zap.String("city", query),
			zap.Stringer("kind", lerr.Kind),
			zap.Int("status_code", lerr.StatusCode),
			zap.Error(lerr.Err))
		return nil, lerr
	}

	span.SetAttributes(attribute.Bool("success", true))
	s.logger.Debug("Weather lookup completed",
		zap.String("city", query),
		zap.String("resolved_city", record.City),
		zap.Int("temperature_celsius", record.TemperatureCelsius))

	return record, nil
}

func (s *OpenWeatherService) lookup(ctx context.Context, original, query string) (*WeatherRecord, error) {
	if err := s.Validate(original); err != nil {
		return nil, err
	}

	u, err := url.Parse(fmt.Sprintf("%s/weather", s.baseURL))
	if err != nil {
		return nil, &LookupError{Kind: KindUnknown, Err: fmt.Errorf("parse base url: %w", err)}
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	if s.lang != "" {
		q.Set("lang", s.lang)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &LookupError{Kind: KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &LookupError{Kind: KindNetworkFailure, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if s.metrics != nil {
		s.metrics.RecordWeatherServiceCall(ctx, s.Name(), resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &LookupError{Kind: KindNotFound, City: original, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &LookupError{Kind: KindUnauthorized, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &LookupError{Kind: KindProviderError, StatusCode: resp.StatusCode}
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &LookupError{Kind: KindUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	record, err := s.toRecord(payload)
	if err != nil {
		return nil, &LookupError{Kind: KindUnknown, StatusCode: resp.StatusCode, Err: err}
	}
	return record, nil
}

func (s *OpenWeatherService) toRecord(payload openWeatherResponse) (*WeatherRecord, error) {
	if payload.Name == "" || payload.Main == nil || payload.Main.Temp == nil ||
		len(payload.Weather) == 0 || payload.Weather[0].Icon == "" {
		return nil, errInvalidPayload
	}

	record := &WeatherRecord{
		City:               payload.Name,
		TemperatureCelsius: int(math.Round(*payload.Main.Temp)),
		Description:        payload.Weather[0].Description,
		IconURL:            s.iconBaseURL + payload.Weather[0].Icon + s.iconSuffix,
	}

	if payload.Main.Humidity != nil {
		humidity := int(math.Round(*payload.Main.Humidity))
		record.HumidityPercent = &humidity
	}
	if payload.Wind != nil && payload.Wind.Speed != nil {
		speed := *payload.Wind.Speed
		record.WindSpeedMs = &speed
	}

	return record, nil
}
