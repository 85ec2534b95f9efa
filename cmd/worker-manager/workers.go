package main

import (
	"database/sql"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"bizhealth-workers/internal/common/camunda"
	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/observability"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/feasibility"

	cf "bizhealth-workers/internal/workers/feasibility/calculate-feasibility"
	ifr "bizhealth-workers/internal/workers/feasibility/index-feasibility-report"
	rfp "bizhealth-workers/internal/workers/feasibility/render-feasibility-pdf"
	rdm "bizhealth-workers/internal/workers/health/record-daily-metrics"
	sha "bizhealth-workers/internal/workers/health/send-health-alert"
	sh "bizhealth-workers/internal/workers/health/summarize-health"
	cbp "bizhealth-workers/internal/workers/onboarding/create-business-profile"
	nq "bizhealth-workers/internal/workers/onboarding/next-question"
)

type dependencies struct {
	cfg       *config.Config
	db        *sql.DB
	cache     redis.Cmdable
	es        *elasticsearch.Client
	locations feasibility.LocationDataProvider
	email     sha.EmailSender
	sms       sha.SMSSender
	validator *validation.Validator
	log       logger.Logger
}

type registration struct {
	taskType string
	build    func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler
}

// registrations lists every worker in process order.
var registrations = []registration{
	// --- Onboarding ---
	{nq.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := nq.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		return nq.NewHandler(c, d.validator, d.log)
	}},
	{cbp.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := cbp.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		return cbp.NewHandler(c, d.db, d.validator, d.log)
	}},

	// --- Feasibility ---
	{cf.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := cf.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		return cf.NewHandler(c, d.db, d.cache, d.locations, d.validator, d.log)
	}},
	{ifr.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := ifr.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		c.IndexName = d.cfg.Reports.IndexName
		return ifr.NewHandler(c, d.db, d.es, d.validator, d.log)
	}},
	{rfp.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := rfp.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		if d.cfg.Reports.PDFAuthor != "" {
			c.Author = d.cfg.Reports.PDFAuthor
		}
		return rfp.NewHandler(c, d.db, d.validator, d.log)
	}},

	// --- Health ---
	{rdm.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := rdm.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		return rdm.NewHandler(c, d.db, d.validator, d.log)
	}},
	{sh.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := sh.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		return sh.NewHandler(c, d.db, d.validator, d.log)
	}},
	{sha.TaskType, func(d *dependencies, wcfg config.WorkerConfig) camunda.JobHandler {
		c := sha.LoadConfig()
		c.Timeout = config.GetDuration(wcfg.Timeout)
		c.AlertThreshold = d.cfg.Notifications.AlertThreshold
		c.CriticalThreshold = d.cfg.Notifications.CriticalThreshold
		return sha.NewHandler(c, d.db, d.email, d.sms, d.validator, d.log)
	}},
}

// startWorkers opens a job worker for every enabled registration.
func startWorkers(client zbc.Client, d *dependencies, obs *observability.Observability) []*camunda.Worker {
	var workers []*camunda.Worker
	for _, r := range registrations {
		wcfg := config.GetWorkerConfig(d.cfg, r.taskType)
		if !wcfg.Enabled {
			d.log.Info("worker disabled", map[string]interface{}{"taskType": r.taskType})
			continue
		}
		workers = append(workers, camunda.NewWorker(client, r.taskType, wcfg, r.build(d, wcfg), obs, d.log))
	}
	return workers
}
