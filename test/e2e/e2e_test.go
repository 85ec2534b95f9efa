package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/database"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/health"
	"bizhealth-workers/internal/models"

	cf "bizhealth-workers/internal/workers/feasibility/calculate-feasibility"
	ifr "bizhealth-workers/internal/workers/feasibility/index-feasibility-report"
	rfp "bizhealth-workers/internal/workers/feasibility/render-feasibility-pdf"
	rdm "bizhealth-workers/internal/workers/health/record-daily-metrics"
	sha "bizhealth-workers/internal/workers/health/send-health-alert"
	sh "bizhealth-workers/internal/workers/health/summarize-health"
	cbp "bizhealth-workers/internal/workers/onboarding/create-business-profile"
	nq "bizhealth-workers/internal/workers/onboarding/next-question"
)

// Run with E2E=1 against the docker-compose stack (Postgres, Redis, Elasticsearch).
var (
	cfg *config.Config
	pg  *database.PostgresClient
	rc  *database.RedisClient
	esc *database.ElasticsearchClient
)

func TestMain(m *testing.M) {
	if os.Getenv("E2E") == "" {
		fmt.Println("skipping e2e tests: E2E not set")
		os.Exit(0)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err = database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to postgres: %v", err))
	}
	if err := pg.Migrate(ctx); err != nil {
		panic(fmt.Sprintf("failed to migrate: %v", err))
	}

	rc = database.NewRedis(cfg.Database.Redis)
	if err := rc.Ping(ctx); err != nil {
		panic(fmt.Sprintf("failed to ping redis: %v", err))
	}

	esc, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		panic(fmt.Sprintf("failed to create elasticsearch client: %v", err))
	}
	if err := esc.EnsureIndex(ctx, cfg.Reports.IndexName, ifr.IndexMapping); err != nil {
		panic(fmt.Sprintf("failed to ensure index: %v", err))
	}

	code := m.Run()

	rc.Close()
	pg.Close()
	os.Exit(code)
}

type offlineProvider struct{}

func (offlineProvider) Fetch(context.Context, string, models.BusinessType) (*models.LocationData, error) {
	return nil, fmt.Errorf("offline")
}

func (offlineProvider) IsAvailable(context.Context) bool { return false }

type recordingEmail struct{ sent []string }

func (r *recordingEmail) SendEmail(_ context.Context, to, _, _ string) (string, error) {
	r.sent = append(r.sent, to)
	return "email-" + to, nil
}

func TestFeasibilityFlow(t *testing.T) {
	ctx := context.Background()
	v := validation.New()
	log := logger.NewTestLogger(t)
	ownerID := "e2e-" + uuid.NewString()

	responses := models.ResponseSet{}
	for {
		step, err := nq.NewHandler(nq.LoadConfig(), v, log).Execute(ctx, &nq.Input{BusinessType: "CAFE", Responses: responses})
		require.NoError(t, err)
		if step.Complete {
			break
		}
		switch step.Step.ID {
		case "city":
			responses["city"] = "Mumbai"
		case "seating_capacity":
			responses["seating_capacity"] = 20.0
		case "menu_type":
			responses["menu_type"] = "Full Meals"
		default:
			t.Fatalf("unexpected question %q", step.Step.ID)
		}
	}

	profile, err := cbp.NewHandler(cbp.LoadConfig(), pg.DB, v, log).Execute(ctx, &cbp.Input{
		OwnerID: ownerID, BusinessType: "CAFE", Responses: responses,
	})
	require.NoError(t, err)

	report, err := cf.NewHandler(cf.LoadConfig(), pg.DB, rc.Client, offlineProvider{}, v, log).
		Execute(ctx, &cf.Input{ProfileID: profile.ProfileID})
	require.NoError(t, err)
	assert.Equal(t, models.LocationSourceFallback, report.LocationSource)
	assert.Equal(t, "835000", report.Analysis.TotalCapex.String())

	indexCfg := ifr.LoadConfig()
	indexCfg.IndexName = cfg.Reports.IndexName
	indexed, err := ifr.NewHandler(indexCfg, pg.DB, esc.Client, v, log).Execute(ctx, &ifr.Input{ReportID: report.ReportID})
	require.NoError(t, err)
	assert.True(t, indexed.Indexed)
	assert.Equal(t, report.ReportID, indexed.DocumentID)

	render := rfp.NewHandler(rfp.LoadConfig(), pg.DB, v, log)
	first, err := render.Execute(ctx, &rfp.Input{ReportID: report.ReportID})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Positive(t, first.SizeBytes)

	second, err := render.Execute(ctx, &rfp.Input{ReportID: report.ReportID})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.SizeBytes, second.SizeBytes)
}

func TestHealthFlow(t *testing.T) {
	ctx := context.Background()
	v := validation.New()
	log := logger.NewTestLogger(t)
	ownerID := "e2e-" + uuid.NewString()
	today := time.Now().UTC()

	_, err := pg.DB.ExecContext(ctx, `INSERT INTO owners (id, name, email) VALUES ($1, $2, $3)`,
		ownerID, "E2E Owner", "owner@example.com")
	require.NoError(t, err)
	t.Cleanup(func() {
		pg.DB.Exec(`DELETE FROM daily_metrics WHERE owner_id = $1`, ownerID)
		pg.DB.Exec(`DELETE FROM owners WHERE id = $1`, ownerID)
	})

	record := rdm.NewHandler(rdm.LoadConfig(), pg.DB, v, log)
	var lastScore int
	for i := 9; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(health.DateLayout)
		out, err := record.Execute(ctx, &rdm.Input{
			OwnerID:  ownerID,
			Date:     day,
			Sales:    decimal.NewFromInt(15000),
			Expenses: decimal.NewFromInt(8000),
			Wastage:  decimal.NewFromInt(500),
		})
		require.NoError(t, err)
		assert.True(t, out.Created)
		lastScore = out.HealthScore
	}

	// same day again updates in place
	again, err := record.Execute(ctx, &rdm.Input{
		OwnerID: ownerID, Date: today.Format(health.DateLayout),
		Sales: decimal.NewFromInt(15000), Expenses: decimal.NewFromInt(8000), Wastage: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.False(t, again.Created)

	summary, err := sh.NewHandler(sh.LoadConfig(), pg.DB, v, log).Execute(ctx, &sh.Input{OwnerID: ownerID})
	require.NoError(t, err)
	assert.True(t, summary.HasLoggedToday)
	assert.Equal(t, lastScore, summary.CurrentScore)
	assert.Len(t, summary.DailyScores, 10)
	assert.Equal(t, models.TrendStable, summary.Trend)

	email := &recordingEmail{}
	alert, err := sha.NewHandler(sha.LoadConfig(), pg.DB, email, nil, v, log).Execute(ctx, &sha.Input{
		OwnerID: ownerID, CurrentScore: 12, Trend: models.TrendDeclining, Recommendation: summary.Recommendation,
	})
	require.NoError(t, err)
	assert.Equal(t, sha.StatusSent, alert.Status)
	assert.Equal(t, []string{sha.ChannelEmail}, alert.Channels)
	assert.Equal(t, []string{"owner@example.com"}, email.sent)
}
