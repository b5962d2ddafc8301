package handlers

import (
	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/session"
)

// WeatherRequest is the query of a one-off lookup. Blank cities are not a
// validation failure; they are reported as an empty query by the lookup.
type WeatherRequest struct {
	City string `form:"city" json:"city" validate:"max=100,cityname"`
}

// SearchRequest drives the shared session.
type SearchRequest struct {
	City string `json:"city" validate:"max=100,cityname"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string      `json:"error" validate:"required,min=1,max=500"`
	Code    string      `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details interface{} `json:"details,omitempty"`
}

// SessionResponse is the JSON view of a session state.
type SessionResponse struct {
	Query      string                 `json:"query"`
	Status     session.Status         `json:"status"`
	Result     *service.WeatherRecord `json:"result,omitempty"`
	Error      *SessionError          `json:"error,omitempty"`
	Generation uint64                 `json:"generation"`
}

type SessionError struct {
	Kind       service.ErrorKind `json:"kind"`
	Message    string            `json:"message"`
	StatusCode int               `json:"status_code,omitempty"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok alive ready unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Provider  string `json:"provider,omitempty"`
}

func newSessionResponse(st session.State) SessionResponse {
	resp := SessionResponse{
		Query:      st.Query,
		Status:     st.Status,
		Result:     st.Result,
		Generation: st.Generation,
	}
	if st.Error != nil {
		resp.Error = &SessionError{
			Kind:       st.Error.Kind,
			Message:    st.Error.Message(),
			StatusCode: st.Error.StatusCode,
		}
	}
	return resp
}
