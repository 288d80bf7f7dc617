package service

import (
	"context"

	"ai-research-safety-be/internal/dto"
	"ai-research-safety-be/internal/pkg/logger"
)

type IAdminService interface {
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	logger logger.ILogger
}

func NewAdminService(sysLogger logger.ILogger) IAdminService {
	return &adminService{logger: sysLogger}
}

func (s *adminService) GetSystemLogs(_ context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	logs, err := s.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(_ context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		},
		Details: l.Details,
	}, nil
}
