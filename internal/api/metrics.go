package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/models"
	"github.com/m.wallace/momentum-engine/internal/momentum"
)

type TodayMetricsResponse struct {
	Body momentum.DailyMetrics
}

type WeeklyMetricsResponse struct {
	Body momentum.WeeklyMetrics
}

type BacklogHealthResponse struct {
	Body struct {
		models.BacklogHealthReport
		PullAdvice backlog.PullAdvice `json:"pull_advice"`
	}
}

type ClientMetricsResponse struct {
	Body []momentum.ClientRollup
}

type DrainTypesRequest struct {
	WindowDays int `query:"windowDays" required:"false" minimum:"1" maximum:"90" doc:"Trailing window in days (default 30)"`
}

type DrainTypesResponse struct {
	Body []momentum.DrainTypeStat
}

func (s *Server) metricsToday(ctx context.Context, input *struct{}) (*TodayMetricsResponse, error) {
	daily, err := s.momentum.Today()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute daily metrics", err)
	}
	return &TodayMetricsResponse{Body: *daily}, nil
}

func (s *Server) metricsWeekly(ctx context.Context, input *struct{}) (*WeeklyMetricsResponse, error) {
	weekly, err := s.momentum.Weekly()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute weekly metrics", err)
	}
	return &WeeklyMetricsResponse{Body: *weekly}, nil
}

func (s *Server) metricsBacklogHealth(ctx context.Context, input *struct{}) (*BacklogHealthResponse, error) {
	report, err := s.backlog.Health()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute backlog health", err)
	}
	advice, err := s.backlog.ShouldPull()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute pull advice", err)
	}

	resp := &BacklogHealthResponse{}
	resp.Body.BacklogHealthReport = *report
	resp.Body.PullAdvice = *advice
	return resp, nil
}

func (s *Server) metricsClients(ctx context.Context, input *struct{}) (*ClientMetricsResponse, error) {
	rollups, err := s.momentum.Clients()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute client metrics", err)
	}
	if rollups == nil {
		rollups = []momentum.ClientRollup{}
	}
	return &ClientMetricsResponse{Body: rollups}, nil
}

func (s *Server) metricsDrainTypes(ctx context.Context, input *DrainTypesRequest) (*DrainTypesResponse, error) {
	window := input.WindowDays
	if window == 0 {
		window = 30
	}
	stats, err := s.momentum.DrainTypes(window)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute drain types", err)
	}
	if stats == nil {
		stats = []momentum.DrainTypeStat{}
	}
	return &DrainTypesResponse{Body: stats}, nil
}
