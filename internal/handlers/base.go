package handlers

import (
	"net/http"

	"github.com/receptio/visitlog/internal/config"
	"github.com/receptio/visitlog/internal/policy"
	"github.com/receptio/visitlog/internal/storage"
	"github.com/receptio/visitlog/internal/visits"
	"github.com/sirupsen/logrus"
)

// Handler is the HTTP surface of the logbook. The stores and policy engine
// live for the process; a lifecycle service is built per request so the audit
// trail always carries the caller's origin address.
type Handler struct {
	cfg     *config.Config
	logger  *logrus.Logger
	engine  *policy.Engine
	visits  visits.VisitStore
	audit   visits.AuditStore
	archive storage.Archive
	log     *logrus.Entry
}

func NewHandler(logger *logrus.Logger, cfg *config.Config, visitStore visits.VisitStore, auditStore visits.AuditStore, archive storage.Archive) *Handler {
	engine := policy.New(policy.Context{
		Environment:    cfg.Environment,
		UserGroups:     cfg.UserGroups,
		SimulateRole:   cfg.SimulateRole,
		OperatorGroups: cfg.OperatorGroups,
		AdminGroups:    cfg.AdminGroups,
	})

	return &Handler{
		cfg:     cfg,
		logger:  logger,
		engine:  engine,
		visits:  visitStore,
		audit:   auditStore,
		archive: archive,
		log:     logger.WithField("component", "http_handler"),
	}
}

func (h *Handler) serviceFor(r *http.Request) *visits.Service {
	return visits.NewService(h.logger, h.visits, h.audit, h.archive, h.actorFor(r))
}

func (h *Handler) actorFor(r *http.Request) visits.Actor {
	return visits.Actor{
		PerformedBy: h.cfg.AppUser,
		IPAddress:   getClientIP(r),
	}
}
