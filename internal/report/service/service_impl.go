package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daurulang/daurulang/internal/clock"
	"github.com/daurulang/daurulang/internal/config"
	obsmetrics "github.com/daurulang/daurulang/internal/observability/metrics"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Policy  *config.PolicyHolder
	Pickups pickupdomain.Repository
	Repo    reportdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	policy  *config.PolicyHolder
	pickups pickupdomain.Repository
	repo    reportdomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) reportdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("report.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		policy:  p.Policy,
		pickups: p.Pickups,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req reportdomain.GenerateRequest) (*reportdomain.Response, error) {
	userID, err := s.parseUserID(req.UserID)
	if err != nil {
		return nil, err
	}

	reportType, ok := reportdomain.ParseReportType(req.Type)
	if !ok {
		return nil, reportdomain.ErrInvalidType
	}
	if !validPeriod(req.Year, req.Month) {
		return nil, reportdomain.ErrInvalidPeriod
	}

	from, to := periodWindow(req.Year, req.Month, reportType)
	records, err := s.pickups.ListCompletedInRange(ctx, s.db, userID, from, to)
	if err != nil {
		return nil, err
	}

	snapshot := s.aggregate(userID, req.Year, req.Month, reportType, records)
	if err := s.repo.Upsert(ctx, s.db, snapshot); err != nil {
		return nil, err
	}

	// On regeneration the conflict update keeps the original row id, so
	// reload to return the identifier the row actually carries.
	stored, err := s.repo.FindByPeriod(ctx, s.db, userID, req.Year, req.Month, reportType)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		snapshot = stored
	}

	s.metrics.RecordReportGeneration(ctx, string(reportType))
	s.log.Info("report generated",
		zap.String("user_id", userID.String()),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.String("type", string(reportType)),
		zap.Int("total_pickups", snapshot.TotalPickups),
	)

	return toResponse(snapshot), nil
}

func (s *Service) List(ctx context.Context, req reportdomain.ListRequest) ([]reportdomain.Response, error) {
	userID, err := s.parseUserID(req.UserID)
	if err != nil {
		return nil, err
	}

	filter := reportdomain.ListFilter{Year: req.Year, Month: req.Month}
	if strings.TrimSpace(req.Type) != "" {
		reportType, ok := reportdomain.ParseReportType(req.Type)
		if !ok {
			return nil, reportdomain.ErrInvalidType
		}
		filter.Type = reportType
	}

	snapshots, err := s.repo.List(ctx, s.db, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]reportdomain.Response, 0, len(snapshots))
	for i := range snapshots {
		resp = append(resp, *toResponse(&snapshots[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id string) (*reportdomain.Response, error) {
	uid, err := s.parseUserID(userID)
	if err != nil {
		return nil, err
	}

	reportID, err := reportdomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, reportdomain.ErrInvalidID
	}

	// The lookup is scoped to the requesting user, so a report owned by
	// someone else is indistinguishable from one that does not exist.
	snapshot, err := s.repo.FindByID(ctx, s.db, uid, reportID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, reportdomain.ErrNotFound
	}

	return toResponse(snapshot), nil
}

// aggregate reduces the completed pickups of one period into a snapshot.
func (s *Service) aggregate(userID snowflake.ID, year, month int, reportType reportdomain.ReportType, records []pickupdomain.PickupRecord) *reportdomain.ReportSnapshot {
	policy := s.policy.Get()

	breakdown := reportdomain.Breakdown{}
	totalWeight := 0.0
	for i := range records {
		record := &records[i]
		weight := record.Weight()
		totalWeight += weight

		// A multi-type pickup splits its weight evenly across its tags.
		// This is a simplifying accounting policy, not a measurement.
		if len(record.WasteTypes) == 0 {
			continue
		}
		share := weight / float64(len(record.WasteTypes))
		for _, wasteType := range record.WasteTypes {
			breakdown.Add(wasteType, share)
		}
	}

	recycled := totalWeight * policy.RecycledRatio
	rate := 0.0
	if totalWeight > 0 {
		rate = recycled / totalWeight * 100
	}

	return &reportdomain.ReportSnapshot{
		ID:             s.genID.Generate(),
		UserID:         userID,
		Year:           year,
		Month:          month,
		Type:           reportType,
		TotalPickups:   len(records),
		TotalWeightKg:  totalWeight,
		Breakdown:      datatypes.NewJSONType(breakdown),
		RecycledKg:     recycled,
		RecyclingRate:  rate,
		PlasticCredits: breakdown.Weight(pickupdomain.WastePlastic) * policy.CreditPerKg,
		CostSavings:    totalWeight * policy.CostSavingPerKg,
		GeneratedAt:    s.clock.Now(),
	}
}

func (s *Service) parseUserID(value string) (snowflake.ID, error) {
	userID, err := reportdomain.ParseID(strings.TrimSpace(value))
	if err != nil || userID == 0 {
		return 0, reportdomain.ErrInvalidUser
	}
	return userID, nil
}

func validPeriod(year, month int) bool {
	return year >= 2000 && year <= 9999 && month >= 1 && month <= 12
}

// periodWindow returns the [from, to) aggregation window for the period.
// Quarterly windows cover the calendar quarter containing the month and
// annual windows cover the whole year.
func periodWindow(year, month int, reportType reportdomain.ReportType) (time.Time, time.Time) {
	switch reportType {
	case reportdomain.TypeQuarterly:
		quarterStart := ((month-1)/3)*3 + 1
		from := time.Date(year, time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 3, 0)
	case reportdomain.TypeAnnual:
		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	default:
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	}
}

func toResponse(snapshot *reportdomain.ReportSnapshot) *reportdomain.Response {
	breakdown := snapshot.Breakdown.Data()
	out := make(map[string]float64, len(breakdown))
	for wasteType, weight := range breakdown {
		out[string(wasteType)] = weight
	}

	return &reportdomain.Response{
		ID:             snapshot.ID.String(),
		Year:           snapshot.Year,
		Month:          snapshot.Month,
		Type:           snapshot.Type,
		TotalPickups:   snapshot.TotalPickups,
		TotalWeightKg:  snapshot.TotalWeightKg,
		Breakdown:      out,
		RecycledKg:     snapshot.RecycledKg,
		RecyclingRate:  snapshot.RecyclingRate,
		PlasticCredits: snapshot.PlasticCredits,
		CostSavings:    snapshot.CostSavings,
		GeneratedAt:    snapshot.GeneratedAt,
	}
}
