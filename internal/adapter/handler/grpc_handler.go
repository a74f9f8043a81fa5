package handler

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the order desk reports its health under.
const ServiceName = "orderdesk.OrderDesk"

// HealthService publishes the serving status of the order desk over the
// standard gRPC health protocol.
type HealthService struct {
	server *health.Server
}

func NewHealthService() *HealthService {
	return &HealthService{server: health.NewServer()}
}

func (h *HealthService) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, h.server)
}

func (h *HealthService) Serving() {
	h.server.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.server.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

// Shutdown reports NOT_SERVING to every watcher and ignores later updates.
func (h *HealthService) Shutdown() {
	h.server.Shutdown()
}
