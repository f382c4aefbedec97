// filepath: internal/services/info_service.go
package services

import (
	"time"
	"trialdb/internal/models"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version   string
	StartTime time.Time
	Database  string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time, database string) *infoService {
	return &infoService{
		Version:   version,
		StartTime: startTime,
		Database:  database,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName: "trialdb",
		Version:     s.Version,
		UptimeSince: s.StartTime,
		Database:    s.Database,
	}
}
