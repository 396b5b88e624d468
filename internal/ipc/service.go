package ipc

import (
	"context"
	"log/slog"

	"nriassist/internal/daemon"
	"nriassist/internal/logging"
)

// service is the net/rpc receiver. Each exported method is reachable as
// serviceName.Method.
type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.daemon.Status()
	return nil
}

func (s *service) ApplicationList(req ApplicationListRequest, resp *ApplicationListResponse) error {
	apps, err := s.daemon.Workflow().List(req.Statuses...)
	if err != nil {
		return err
	}
	resp.Applications = apps
	return nil
}

func (s *service) ApplicationDescribe(req ApplicationDescribeRequest, resp *ApplicationDescribeResponse) error {
	described, err := s.daemon.Workflow().Describe(s.ctx, req.ID)
	if err != nil {
		return err
	}
	*resp = described
	return nil
}

func (s *service) Inbox(req RoleRequest, resp *InboxResponse) error {
	inbox, err := s.daemon.Workflow().Inbox(req.Role)
	if err != nil {
		return err
	}
	*resp = inbox
	return nil
}

func (s *service) Statistics(req RoleRequest, resp *StatisticsResponse) error {
	stats, err := s.daemon.Workflow().Statistics(req.Role)
	if err != nil {
		return err
	}
	*resp = stats
	return nil
}

func (s *service) Transition(req TransitionRequest, resp *TransitionResponse) error {
	s.logger.Debug("transition requested",
		logging.String(logging.FieldApplicationID, req.ID),
		logging.String(logging.FieldRole, req.Role))
	result, err := s.daemon.Advance(s.ctx, req.ID, req.Role)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

func (s *service) Catalog(_ CatalogRequest, resp *CatalogResponse) error {
	*resp = s.daemon.Workflow().Catalog()
	return nil
}

func (s *service) Roles(_ RolesRequest, resp *RolesResponse) error {
	*resp = s.daemon.Workflow().Roles()
	return nil
}

func (s *service) Search(req SearchRequest, resp *SearchResponse) error {
	result, err := s.daemon.Search(req.Query, req.Threshold, req.Scorer)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}
