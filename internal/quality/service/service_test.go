package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dqengine/internal/quality/metrics"
	"dqengine/internal/quality/models"
	"dqengine/internal/quality/rules"
	"dqengine/internal/quality/service/mocks"
	"dqengine/internal/quality/uniqueness"
	uniquemocks "dqengine/internal/quality/uniqueness/mocks"
	"dqengine/internal/quality/validator"
	dErrors "dqengine/pkg/domain-errors"
	"dqengine/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks FieldValidator
type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *rules.InMemoryStore
	index   *uniqueness.InMemoryIndex
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = rules.NewInMemoryStore()
	s.index = uniqueness.NewInMemoryIndex()
	s.metrics = metrics.NewWith(prometheus.NewRegistry())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := rules.NewCache(s.store, rules.WithLogger(logger))
	fields := validator.New(cache, uniqueness.NewChecker(s.index, s.metrics))
	s.service = New(fields, WithLogger(logger), WithMetrics(s.metrics), WithConcurrency(4))
}

func (s *ServiceSuite) TestValidate() {
	s.Run("malformed national id with local phone", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"national_id":  "12345",
			"phone_number": "0912345678",
		})
		s.Require().NoError(err)
		s.False(report.Valid)
		s.Equal([]string{validator.IssueNationalID}, report.Issues)
		s.LessOrEqual(report.Score, 0.7)
		s.Equal(models.BadgeC, report.Badge)
		s.True(report.Fields["phone_number"].Valid)
		s.False(report.Fields["national_id"].Valid)
	})

	s.Run("clean record gets an A", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"national_id":   "1234567890",
			"first_name":    "Amna",
			"date_of_birth": "1990-01-01",
		})
		s.Require().NoError(err)
		s.True(report.Valid)
		s.Equal(1.0, report.Score)
		s.Equal(models.BadgeA, report.Badge)
		s.Empty(report.Issues)
		s.Empty(report.Anomalies)
	})

	s.Run("biometric data is never validated", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"biometric_data": map[string]any{"template": "..."},
			"first_name":     "Amna",
		})
		s.Require().NoError(err)
		s.NotContains(report.Fields, "biometric_data")
		s.Contains(report.Fields, "first_name")
	})

	s.Run("record score is the lowest field score", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"first_name":  "7",
			"national_id": "1",
		})
		s.Require().NoError(err)
		s.InDelta(0.6, report.Score, 1e-9)
		s.Equal(models.BadgeC, report.Badge)
		// sorted field order: first_name before national_id
		s.Equal([]string{validator.IssueNameLength, validator.IssueNameCharacters, validator.IssueNationalID}, report.Issues)
	})

	s.Run("soft address penalty lowers the score without an issue", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"address":   "House 12, Street 4, Port Sudan",
			"stateCode": "1",
		})
		s.Require().NoError(err)
		s.True(report.Valid)
		s.InDelta(0.95, report.Score, 1e-9)
		s.Equal(models.BadgeA, report.Badge)
	})

	s.Run("anomalies are attached", func() {
		report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{
			"date_of_birth": "1800-01-01",
		})
		s.Require().NoError(err)
		s.Require().Len(report.Anomalies, 1)
		s.Equal(models.AnomalyAge, report.Anomalies[0].Type)
	})

	s.Run("store rules apply to the resolved table", func() {
		s.store.Add(models.RuleRecord{
			TableName: "citizens", ColumnName: "email", RuleType: "regex",
			Value: map[string]any{"pattern": "@"}, Message: "Email must contain @",
		})
		report, err := s.service.Validate(s.ctx, "citizens", models.Record{"email": "nobody"})
		s.Require().NoError(err)
		s.Equal([]string{"Email must contain @"}, report.Issues)
	})

	s.Equal(float64(7), testutil.ToFloat64(s.metrics.Reports.WithLabelValues("citizens", "A"))+
		testutil.ToFloat64(s.metrics.Reports.WithLabelValues("citizens", "C"))+
		testutil.ToFloat64(s.metrics.Reports.WithLabelValues("citizens", "B"))+
		testutil.ToFloat64(s.metrics.Reports.WithLabelValues("citizens", "D")))
}

func (s *ServiceSuite) TestValidate_DuplicateValue() {
	s.store.Add(models.RuleRecord{TableName: "citizens", ColumnName: "national_id", RuleType: "unique"})
	s.index.Add("citizens", "national_id", "1234567890")

	report, err := s.service.Validate(s.ctx, models.EntityCitizen, models.Record{"national_id": "1234567890"})
	s.Require().NoError(err)
	s.False(report.Valid)
	s.Equal([]string{uniqueness.DefaultIssue}, report.Issues)
	s.InDelta(0.7, report.Score, 1e-9)
}

func (s *ServiceSuite) TestValidate_UniquenessStoreDown() {
	ctrl := gomock.NewController(s.T())
	querier := uniquemocks.NewMockQuerier(ctrl)
	querier.EXPECT().Exists(gomock.Any(), "citizens", "email", "a@b.sd").
		Return(false, errors.New("connection refused"))

	s.store.Add(models.RuleRecord{TableName: "citizens", ColumnName: "email", RuleType: "uniqueness"})
	svc := New(validator.New(rules.NewCache(s.store), uniqueness.NewChecker(querier, nil)))

	_, err := svc.Validate(s.ctx, models.EntityCitizen, models.Record{"email": "a@b.sd"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestValidate_UnexpectedError() {
	ctrl := gomock.NewController(s.T())
	fields := mocks.NewMockFieldValidator(ctrl)
	fields.EXPECT().ValidateField(gomock.Any(), "name", "Amna", gomock.Any()).
		Return(models.FieldOutcome{}, errors.New("boom"))

	_, err := New(fields).Validate(s.ctx, models.EntityCitizen, models.Record{"name": "Amna"})
	s.Require().Error(err)
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestValidate_PassesRegionToFields() {
	ctrl := gomock.NewController(s.T())
	fields := mocks.NewMockFieldValidator(ctrl)
	want := validator.FieldContext{EntityType: models.EntityBusiness, StateCode: "7"}
	fields.EXPECT().ValidateField(gomock.Any(), gomock.Any(), gomock.Any(), want).
		Return(models.FieldOutcome{Valid: true, Score: 1, Issues: []string{}}, nil).Times(2)

	_, err := New(fields).Validate(s.ctx, models.EntityBusiness, models.Record{"state_code": "7", "name": "Nile Co"})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCleanse() {
	input := models.Record{
		"phone_number": "0912 345 678",
		"first_name":   "  Amna   Ali ",
		"stateCode":    "1",
	}
	result, err := s.service.Cleanse(s.ctx, models.EntityCitizen, input)
	s.Require().NoError(err)

	s.Equal("+249912345678", result.Data["phone_number"])
	s.Equal("Amna Ali", result.Data["first_name"])
	s.Equal("01", result.Data["stateCode"])
	s.Equal("0912 345 678", input["phone_number"], "input must not be modified")

	s.True(result.Report.Valid)
	s.Nil(result.Report.Fields)
}

func (s *ServiceSuite) TestEnrich() {
	out := s.service.Enrich(s.ctx, models.Record{"state_code": "18", "name": " Amna  Ali "})
	s.Equal("Al Jazirah", out["stateName"])
	s.Equal("2024-06-15T10:00:00.000Z", out["enrichedAt"])
	s.Equal("Amna Ali", out["name"])
	s.Equal("18", out["state_code"])
}

func (s *ServiceSuite) TestBatchCheck() {
	records := []models.Record{
		{"oid": "a-1", "national_id": "123"},
		{"national_id": "456", "phone_number": "0912345678"},
		{"registration_number": "SD-AB12C", "national_id": "789", "first_name": "9"},
		{"national_id": "1234567890"},
		{},
	}
	report, err := s.service.BatchCheck(s.ctx, models.EntityCitizen, records)
	s.Require().NoError(err)
	s.Require().Len(report.Results, len(records))

	for i, r := range report.Results {
		s.Equal(i, r.Index)
	}
	s.Equal("a-1", report.Results[0].RecordID)
	s.Equal("456", report.Results[1].RecordID)
	s.Equal("789", report.Results[2].RecordID)
	s.Nil(report.Results[4].RecordID)
	s.Equal("+249912345678", report.Results[1].CleansedData["phone_number"])

	sum := report.Summary
	s.Equal(5, sum.TotalRecords)
	s.Equal(4, sum.Passed, "0.7 is a pass")
	s.Equal(1, sum.Failed)
	s.Equal(models.IssueCount{Issue: validator.IssueNationalID, Count: 3}, sum.TopIssues[0])
	s.Equal(1, sum.TopIssues[1].Count)

	s.Equal(1, testutil.CollectAndCount(s.metrics.BatchRecords))
}

func (s *ServiceSuite) TestBatchCheck_TooLarge() {
	svc := New(validator.New(nil, nil), WithMaxBatchSize(2))
	_, err := svc.BatchCheck(s.ctx, models.EntityCitizen, make([]models.Record, 3))
	s.Require().Error(err)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestBatchCheck_DefaultLimit() {
	svc := New(validator.New(nil, nil), WithMaxBatchSize(0))
	_, err := svc.BatchCheck(s.ctx, models.EntityCitizen, make([]models.Record, DefaultMaxBatchSize+1))
	s.Require().Error(err)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestBatchCheck_Empty() {
	report, err := s.service.BatchCheck(s.ctx, models.EntityCitizen, nil)
	s.Require().NoError(err)
	s.Empty(report.Results)
	s.Zero(report.Summary.TotalRecords)
}

func (s *ServiceSuite) TestBatchCheck_AbortsOnUnavailable() {
	ctrl := gomock.NewController(s.T())
	querier := uniquemocks.NewMockQuerier(ctrl)
	querier.EXPECT().Exists(gomock.Any(), "citizens", "national_id", gomock.Any()).
		Return(false, errors.New("timeout")).MinTimes(1)

	s.store.Add(models.RuleRecord{TableName: "citizens", ColumnName: "national_id", RuleType: "unique"})
	svc := New(validator.New(rules.NewCache(s.store), uniqueness.NewChecker(querier, nil)))

	var records []models.Record
	for i := range 5 {
		records = append(records, models.Record{"national_id": fmt.Sprintf("%010d", i)})
	}
	_, err := svc.BatchCheck(s.ctx, models.EntityCitizen, records)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "x", RecordID(models.Record{"oid": "x", "national_id": "y"}))
	assert.Equal(t, "y", RecordID(models.Record{"oid": "", "national_id": "y"}))
	assert.Equal(t, float64(42), RecordID(models.Record{"registration_number": float64(42)}))
	assert.Nil(t, RecordID(models.Record{"name": "z"}))
}

func TestEntityLabel(t *testing.T) {
	require.Equal(t, "businesses", entityLabel("business"))
	require.Equal(t, "unknown", entityLabel("spaceship"))
}
