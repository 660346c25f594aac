package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/darshan-ceo/beacon-search/internal/config"
	"github.com/darshan-ceo/beacon-search/internal/database"
	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/repository"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/darshan-ceo/beacon-search/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Seeds demo fixture data into both backing stores so a fresh environment
// answers searches immediately. Rich-store rows use the newer relational
// field names; a handful of flat-store rows deliberately keep the legacy
// schema to exercise the dual-schema adapters end to end.

var (
	dryRun  = flag.Bool("dry-run", false, "Print what would be seeded without writing")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
)

type fixture struct {
	kind    models.EntityKind
	records []models.Record
}

var richFixtures = []fixture{
	{models.KindClient, []models.Record{
		{"id": "cl-001", "name": "Meridian Textiles Pvt Ltd", "gstin": "27AAACM1234A1Z5", "email": "accounts@meridiantextiles.in", "status": "active"},
		{"id": "cl-002", "name": "Shakti Steel Traders", "gstin": "24AABCS5678B1Z3", "email": "gst@shaktisteel.co.in", "status": "active"},
		{"id": "cl-003", "name": "Nimbus Logistics LLP", "gstin": "29AADFN9012C1Z8", "email": "finance@nimbuslog.in", "status": "dormant"},
	}},
	{models.KindCase, []models.Record{
		{"id": "cs-100", "caseNumber": "GST/2025/0100", "title": "ITC mismatch demand FY 2022-23", "clientId": "cl-001", "stage": "adjudication", "description": "Demand raised under section 73 for excess input tax credit claimed against GSTR-2A."},
		{"id": "cs-101", "caseNumber": "GST/2025/0101", "title": "E-way bill detention appeal", "clientId": "cl-002", "stage": "first-appeal", "description": "Goods detained in transit, penalty under section 129 contested."},
		{"id": "cs-102", "caseNumber": "GST/2025/0102", "title": "Refund rejection - export of services", "clientId": "cl-003", "stage": "drafting", "description": "Refund claim rejected for want of FIRC reconciliation."},
	}},
	{models.KindDocument, []models.Record{
		{"id": "doc-500", "title": "SCN_Reply_Draft.docx", "caseId": "cs-100", "caseNumber": "GST/2025/0100", "uploadedBy": "Priya Nair", "tags": []any{"reply", "urgent"}, "fileType": "docx", "description": "Draft reply to show cause notice covering ITC reconciliation."},
		{"id": "doc-501", "title": "GSTR-2A_Reconciliation_FY23.xlsx", "caseId": "cs-100", "caseNumber": "GST/2025/0100", "uploadedBy": "Arjun Mehta", "tags": []any{"workings"}, "fileType": "xlsx", "description": "Month-wise reconciliation of GSTR-2A against purchase register."},
		{"id": "doc-502", "title": "Detention_Order_MOV09.pdf", "caseId": "cs-101", "caseNumber": "GST/2025/0101", "uploadedBy": "Priya Nair", "tags": []any{"order"}, "fileType": "pdf", "description": "Order of detention in form MOV-09 with penalty computation."},
	}},
	{models.KindTask, []models.Record{
		{"id": "tk-900", "title": "File SCN reply", "caseId": "cs-100", "assignee": "Priya Nair", "status": "in-progress", "priority": "high", "description": "Finalize and file reply before the personal hearing date."},
		{"id": "tk-901", "title": "Collect FIRC certificates", "caseId": "cs-102", "assignee": "Arjun Mehta", "status": "open", "priority": "medium", "description": "Obtain FIRCs from the client's bank for refund period."},
	}},
	{models.KindHearing, []models.Record{
		{"id": "hr-300", "title": "Personal hearing - ITC demand", "caseId": "cs-100", "court": "Joint Commissioner (Adjudication), Mumbai", "date": "2025-09-18", "status": "scheduled"},
		{"id": "hr-301", "title": "First appeal hearing", "caseId": "cs-101", "court": "Appellate Authority, Ahmedabad", "date": "2025-10-02", "status": "scheduled"},
	}},
}

// Legacy-schema rows that only exist in the flat store.
var flatFixtures = []fixture{
	{models.KindClient, []models.Record{
		{"id": "cl-090", "client_name": "Heritage Agro Mills", "gstin": "08AAHCH4321D1Z9", "status": "active"},
	}},
	{models.KindDocument, []models.Record{
		{"id": "doc-090", "file_name": "Audit_Notice_ADT01.pdf", "case_id": "cs-100", "uploaded_by": "Priya Nair", "tags": "notice,audit", "file_type": "pdf"},
	}},
	{models.KindHearing, []models.Record{
		{"id": "hr-090", "hearingTitle": "Stay application mention", "case_id": "cs-101", "forum": "High Court, Gujarat", "hearing_date": "2025-09-25"},
	}},
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Info("Starting demo data seeder...")

	if *dryRun {
		for _, fx := range richFixtures {
			logger.WithFields(logrus.Fields{"kind": fx.kind, "count": len(fx.records)}).Info("DRY RUN: would seed rich store")
		}
		for _, fx := range flatFixtures {
			logger.WithFields(logrus.Fields{"kind": fx.kind, "count": len(fx.records)}).Info("DRY RUN: would seed flat store")
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	richStore := store.NewGormStore(repoManager.EntityRecord, logger)
	flatStore := store.NewRedisStore(dbManager.Redis, logger)

	ctx := context.Background()
	seeded := 0

	for _, fx := range richFixtures {
		for _, rec := range fx.records {
			if err := richStore.Put(ctx, fx.kind, rec); err != nil {
				logger.WithError(err).WithField("kind", fx.kind).Error("Failed to seed rich store record")
				continue
			}
			seeded++
		}
	}

	for _, fx := range flatFixtures {
		for _, rec := range fx.records {
			if err := flatStore.Put(ctx, fx.kind, rec); err != nil {
				logger.WithError(err).WithField("kind", fx.kind).Error("Failed to seed flat store record")
				continue
			}
			seeded++
		}
	}

	logger.WithField("records", seeded).Info("Demo data seeding completed")
}
