package bootstrap

import (
	"context"
	"log"

	"warehouse-scan-be/internal/config"
	"warehouse-scan-be/internal/controller"
	"warehouse-scan-be/internal/handler"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/pkg/mailer"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/implementation"
	"warehouse-scan-be/internal/repository/memory"
	"warehouse-scan-be/internal/service"
	"warehouse-scan-be/internal/websocket"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/movement"
	pktNats "warehouse-scan-be/pkg/nats"
	"warehouse-scan-be/pkg/scan"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	InventoryController   controller.IInventoryController
	SubmissionController  controller.ISubmissionController
	ScanSessionController controller.IScanSessionController
	HealthController      controller.IHealthController

	// Background services (started by main.go)
	AlertConsumer service.IAlertConsumer
	AuditService  service.IAuditService

	// WebSockets
	ScannerHandler *handler.ScannerHandler
	WebSocketHub   *websocket.Hub

	SessionRepo contract.IScanSessionRepository
	Logger      logger.ILogger

	natsConn *nats.Conn
	natsSub  *pktNats.Subscriber
}

// NewContainer wires the application. db may be nil, which disables the
// submission audit trail.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	scannerLogger := logger.NewIsolatedLogger(cfg.App.ScannerLogPath)

	store, err := airtable.New(airtable.Config{
		APIKey:      cfg.Airtable.APIKey,
		BaseID:      cfg.Airtable.BaseID,
		EndpointURL: cfg.Airtable.EndpointURL,
		View:        cfg.Airtable.View,
		Timeout:     cfg.Airtable.Timeout,

		RequestsPerSecond: float64(cfg.Airtable.RequestsPerSecond),
		MaxRetries:        cfg.Airtable.MaxRetries,
		RetryBaseDelay:    cfg.Airtable.RetryBaseDelay,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Airtable client: %v", err)
	}

	itemRepo := implementation.NewItemRepository(store)
	operationRepo := implementation.NewOperationRepository(store)
	customerRepo := implementation.NewCustomerRepository(store)

	classifier := scan.NewClassifier(cfg.Scan.BarcodeFields, scan.Framing{
		PrefixLen: cfg.Scan.StripPrefixLen,
		Delimiter: cfg.Scan.StripDelimiter,
	})
	warehouseMapper := mapper.NewWarehouseMapper(classifier)

	// 2. Event bus
	var (
		natsConn *nats.Conn
		natsPub  *pktNats.Publisher
		natsSub  *pktNats.Subscriber
	)
	if cfg.App.NatsURL != "" {
		natsConn, err = pktNats.Connect(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS: %v", err)
		} else {
			if natsPub, err = pktNats.NewPublisher(natsConn); err != nil {
				log.Printf("[WARN] Failed to create NATS publisher: %v", err)
			}
			if natsSub, err = pktNats.NewSubscriber(natsConn); err != nil {
				log.Printf("[WARN] Failed to create NATS subscriber: %v", err)
			}
		}
	}

	var eventPublisher movement.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	var movementPublisher movement.Publisher = movement.NewNatsPublisher(eventPublisher, sysLogger)

	// 3. Audit trail
	var auditRepo contract.ISubmissionAuditRepository
	if db != nil {
		auditRepo = implementation.NewSubmissionAuditRepository(db)
	}
	var auditSubscriber service.EventSubscriber
	if natsSub != nil {
		auditSubscriber = natsSub
	}
	auditService := service.NewAuditService(auditRepo, auditSubscriber, warehouseMapper, sysLogger)
	if auditRepo != nil && natsPub == nil {
		// Without a broker the audit trail is written in-process.
		movementPublisher = service.NewRecordingPublisher(movementPublisher, auditService, sysLogger)
	}

	// 4. Reconciliation alerts
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}
	alertPublisher := service.NewAlertPublisher(pubSub, cfg.Alert.Topic)
	alertConsumer := service.NewAlertConsumer(pubSub, cfg.Alert.Topic, emailService, cfg.Alert.EmailTo, sysLogger)

	// 5. Services
	inventoryService := service.NewInventoryService(
		itemRepo,
		operationRepo,
		customerRepo,
		movementPublisher,
		warehouseMapper,
		cfg.Scan.OperationsCache,
		sysLogger,
	)
	submissionService := service.NewSubmissionService(
		itemRepo,
		operationRepo,
		inventoryService,
		movementPublisher,
		alertPublisher,
		warehouseMapper,
		sysLogger,
	)

	sessionRepo := memory.NewScanSessionRepository(cfg.Scan.SessionTTL, func(sessionID string) {
		scannerLogger.Info("SCAN", "Scan session expired", map[string]interface{}{"session_id": sessionID})
	})
	sessionService := service.NewScanSessionService(
		sessionRepo,
		inventoryService,
		submissionService,
		classifier,
		warehouseMapper,
		service.ScanSessionConfig{
			Mode:       scan.ParseSelectionMode(cfg.Scan.SelectionMode),
			KeyGap:     cfg.Scan.KeyGap,
			Terminator: cfg.Scan.TerminatorKey,
		},
		scannerLogger,
	)

	// 6. WebSocket hub, fanned out over Redis when configured
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	wsHub := websocket.NewHub(rdb, sessionService.HandleKey, scannerLogger)
	sessionService.SetNotifier(wsHub)

	return &Container{
		InventoryController:   controller.NewInventoryController(inventoryService),
		SubmissionController:  controller.NewSubmissionController(submissionService, auditService),
		ScanSessionController: controller.NewScanSessionController(sessionService),
		HealthController:      controller.NewHealthController(sessionRepo),

		AlertConsumer: alertConsumer,
		AuditService:  auditService,

		ScannerHandler: handler.NewScannerHandler(sessionService, wsHub, scannerLogger),
		WebSocketHub:   wsHub,

		SessionRepo: sessionRepo,
		Logger:      sysLogger,

		natsConn: natsConn,
		natsSub:  natsSub,
	}
}

// Close stops the event consumers and drains the NATS connection.
func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Stop()
	}
	if c.natsConn != nil {
		if err := c.natsConn.Drain(); err != nil {
			log.Printf("[WARN] Failed to drain NATS connection: %v", err)
		}
	}
	_ = c.Logger.Sync()
}
