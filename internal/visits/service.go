package visits

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/receptio/visitlog/internal/models"
	"github.com/receptio/visitlog/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	signaturePrefix  = "data:image/png;base64,"
	minSignatureData = 100

	timeLayout = "2006-01-02 15:04:05"
)

// VisitStore is the durable record of visits.
type VisitStore interface {
	Create(ctx context.Context, visit *models.Visit) error
	CloseVisit(ctx context.Context, id uint, exitTime time.Time, exitSignature string) error
	FindByID(ctx context.Context, id uint) (*models.Visit, error)
	FindActive(ctx context.Context, filter Filter) ([]models.Visit, error)
	FindHistory(ctx context.Context, filter HistoryFilter) ([]models.Visit, error)
}

// AuditStore is the append-only audit trail. An empty details string is
// stored as null.
type AuditStore interface {
	Append(ctx context.Context, visitID *uint, action, details, performedBy, ipAddress string) error
	Latest(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Service owns the visit lifecycle: it is the only writer of visit and audit
// state and validates every payload before touching the stores. Construct one
// per request with the acting user's identity.
type Service struct {
	visits  VisitStore
	audit   AuditStore
	archive storage.Archive
	actor   Actor
	log     *logrus.Entry
	now     func() time.Time
}

func NewService(logger *logrus.Logger, visits VisitStore, audit AuditStore, archive storage.Archive, actor Actor) *Service {
	return &Service{
		visits:  visits,
		audit:   audit,
		archive: archive,
		actor:   actor,
		log:     logger.WithField("component", "visit_service"),
		now:     time.Now,
	}
}

// RegisterEntry validates and persists a new open visit, then appends the
// matching audit row. Nothing is written when validation fails.
func (s *Service) RegisterEntry(ctx context.Context, req EntryRequest) error {
	if err := requireFields(
		field{"first_name", req.FirstName},
		field{"last_name", req.LastName},
		field{"host_last_name", req.HostLastName},
		field{"entry_signature", req.EntrySignature},
	); err != nil {
		s.warnValidation(err)
		return err
	}
	if err := validateSignature(req.EntrySignature); err != nil {
		s.warnValidation(err)
		return err
	}

	s.log.WithFields(logrus.Fields{
		"performed_by":   s.actor.PerformedBy,
		"ip":             s.actor.IPAddress,
		"host_last_name": req.HostLastName,
	}).Debug("Registering entry")

	visit := &models.Visit{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Company:        optional(req.Company),
		HostLastName:   strings.TrimSpace(req.HostLastName),
		EntryTime:      s.now().Truncate(time.Second),
		EntrySignature: req.EntrySignature,
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		return err
	}

	entryTime := visit.EntryTime.Format(timeLayout)
	if err := s.audit.Append(ctx, &visit.ID, "Entry registered", "Entry at "+entryTime,
		s.actor.PerformedBy, s.actor.IPAddress); err != nil {
		return err
	}

	s.archiveSignature(visit.ID, "entry", req.EntrySignature)

	s.log.WithFields(logrus.Fields{
		"visit_id":       visit.ID,
		"first_name":     visit.FirstName,
		"last_name":      visit.LastName,
		"host_last_name": visit.HostLastName,
		"entry_time":     entryTime,
		"performed_by":   s.actor.PerformedBy,
		"ip":             s.actor.IPAddress,
	}).Info("Entry registered")

	return nil
}

// RegisterExit closes the referenced visit, stamping exit time and signature,
// and returns the exit time string for the sign-out greeting. Closing an
// already-closed visit re-stamps both exit fields; last write wins.
func (s *Service) RegisterExit(ctx context.Context, req ExitRequest) (string, error) {
	if err := requireFields(
		field{"visit_id", req.VisitID},
		field{"exit_signature", req.ExitSignature},
	); err != nil {
		s.warnValidation(err)
		return "", err
	}
	if err := validateSignature(req.ExitSignature); err != nil {
		s.warnValidation(err)
		return "", err
	}

	id, err := strconv.ParseUint(strings.TrimSpace(req.VisitID), 10, 32)
	if err != nil {
		notFound := validationErrorf("visitor not found")
		s.warnValidation(notFound)
		return "", notFound
	}

	visit, err := s.visits.FindByID(ctx, uint(id))
	if err != nil {
		return "", err
	}
	if visit == nil {
		s.log.WithFields(logrus.Fields{
			"visit_id":     id,
			"performed_by": s.actor.PerformedBy,
			"ip":           s.actor.IPAddress,
		}).Warn("Exit attempted for unknown visitor")
		return "", validationErrorf("visitor not found")
	}

	exitTime := s.now().Truncate(time.Second)
	if err := s.visits.CloseVisit(ctx, visit.ID, exitTime, req.ExitSignature); err != nil {
		return "", err
	}

	formatted := exitTime.Format(timeLayout)
	if err := s.audit.Append(ctx, &visit.ID, "Exit registered", "Exit at "+formatted,
		s.actor.PerformedBy, s.actor.IPAddress); err != nil {
		return "", err
	}

	s.archiveSignature(visit.ID, "exit", req.ExitSignature)

	s.log.WithFields(logrus.Fields{
		"visit_id":     visit.ID,
		"exit_time":    formatted,
		"performed_by": s.actor.PerformedBy,
		"ip":           s.actor.IPAddress,
	}).Info("Exit registered")

	return formatted, nil
}

// ActiveVisits lists visitors currently on premises.
func (s *Service) ActiveVisits(ctx context.Context, filter Filter) ([]models.Visit, error) {
	s.log.WithField("filters", describeFilters(filter.Search, filter.From, filter.To, "")).
		Debug("Listing active visits")
	return s.visits.FindActive(ctx, filter)
}

// HistoryVisits lists all visits, open and closed, subject to the filter.
func (s *Service) HistoryVisits(ctx context.Context, filter HistoryFilter) ([]models.Visit, error) {
	s.log.WithField("filters", describeFilters(filter.Search, filter.From, filter.To, filter.Status)).
		Debug("Listing visit history")
	return s.visits.FindHistory(ctx, filter)
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return validationErrorf("missing required field: " + f.name)
		}
	}
	return nil
}

// validateSignature applies the minimal format heuristic: the blob must be a
// base64 PNG data URI with at least 100 characters of payload. The image is
// never decoded for verification.
func validateSignature(signature string) error {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return validationErrorf("invalid signature")
	}
	if len(signature)-len(signaturePrefix) < minSignatureData {
		return validationErrorf("signature too short or missing")
	}
	return nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// archiveSignature copies the decoded PNG to the archive in the background.
// Retention is best effort; a failed upload never fails the registration.
func (s *Service) archiveSignature(visitID uint, kind, signature string) {
	if s.archive == nil {
		return
	}

	log := s.log.WithFields(logrus.Fields{
		"visit_id": visitID,
		"kind":     kind,
	})

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		log.WithError(err).Warn("Signature payload is not valid base64, skipping archive")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		key := fmt.Sprintf("signatures/%d/%s.png", visitID, kind)
		if err := s.archive.Put(ctx, key, data); err != nil {
			log.WithError(err).Warn("Failed to archive signature")
		}
	}()
}

func (s *Service) warnValidation(err error) {
	s.log.WithFields(logrus.Fields{
		"performed_by": s.actor.PerformedBy,
		"ip":           s.actor.IPAddress,
		"reason":       err.Error(),
	}).Warn("Validation failed")
}

func describeFilters(search, from, to, status string) string {
	var parts []string
	if search != "" {
		parts = append(parts, "q="+search)
	}
	if from != "" {
		parts = append(parts, "from="+from)
	}
	if to != "" {
		parts = append(parts, "to="+to)
	}
	if status != "" {
		parts = append(parts, "status="+status)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
