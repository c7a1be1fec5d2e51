package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spainrp/awards/internal/logger"
)

// DiscordGatewayURL is probed to report Discord connectivity.
const DiscordGatewayURL = "https://discord.com/api/v10/gateway"

// Service status values
const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
	StatusMajorOutage = "major_outage"
)

// ServiceStatus is one row of the status page
type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Latency string `json:"latency"`
}

// HealthReport is the status page payload
type HealthReport struct {
	Status    string          `json:"status"`
	Uptime    float64         `json:"uptime"`
	Timestamp time.Time       `json:"timestamp"`
	Services  []ServiceStatus `json:"services"`
}

// Pinger is satisfied by both repository backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService probes the database and the Discord API
type HealthService struct {
	log        logger.Logger
	db         Pinger
	dbName     string
	gatewayURL string
	client     *http.Client
	started    time.Time
	now        func() time.Time
}

// NewHealthService creates a new HealthService. dbName labels the database row.
func NewHealthService(log logger.Logger, db Pinger, dbName string, client *http.Client) *HealthService {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HealthService{
		log:        log,
		db:         db,
		dbName:     dbName,
		gatewayURL: DiscordGatewayURL,
		client:     client,
		started:    time.Now(),
		now:        time.Now,
	}
}

// WithGatewayURL overrides the probed Discord URL
func (s *HealthService) WithGatewayURL(url string) *HealthService {
	s.gatewayURL = url
	return s
}

// Check runs both probes. The API and dashboard rows are always operational
// since answering the request proves them reachable.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	db := s.checkDatabase(ctx)
	discord := s.checkDiscord(ctx)

	overall := StatusOperational
	switch {
	case db.Status != StatusOperational || discord.Status == StatusMajorOutage:
		overall = StatusMajorOutage
	case discord.Status == StatusDegraded:
		overall = StatusDegraded
	}

	now := s.now()
	return &HealthReport{
		Status:    overall,
		Uptime:    now.Sub(s.started).Seconds(),
		Timestamp: now.UTC(),
		Services: []ServiceStatus{
			db,
			discord,
			{Name: "API Backend", Status: StatusOperational, Latency: "0ms"},
			{Name: "Web Dashboard", Status: StatusOperational, Latency: "-"},
		},
	}
}

func latency(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func (s *HealthService) checkDatabase(ctx context.Context) ServiceStatus {
	st := ServiceStatus{Name: fmt.Sprintf("Database (%s)", s.dbName), Status: StatusMajorOutage, Latency: "-"}
	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("Database health check failed", "error", err)
		return st
	}
	st.Status = StatusOperational
	st.Latency = latency(time.Since(start))
	return st
}

func (s *HealthService) checkDiscord(ctx context.Context) ServiceStatus {
	st := ServiceStatus{Name: "Discord Gateway", Status: StatusMajorOutage, Latency: "-"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.gatewayURL, nil)
	if err != nil {
		return st
	}
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("Discord health check failed", "error", err)
		return st
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		st.Status = StatusDegraded
		return st
	}
	st.Status = StatusOperational
	st.Latency = latency(time.Since(start))
	return st
}
