package appmanager

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"LotusLedger/api"
	"LotusLedger/api/handlers"
	"LotusLedger/internal/config"
	"LotusLedger/internal/exporter"
	"LotusLedger/internal/importer"
	"LotusLedger/internal/jobs"
	"LotusLedger/internal/ledger"
	"LotusLedger/internal/logger"
	"LotusLedger/internal/serviceiface"
	"LotusLedger/internal/session"
	"LotusLedger/internal/staging"
	"LotusLedger/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

var (
	db      *sql.DB
	pgxPool *pgxpool.Pool
	blobs   staging.BlobStore
)

func SetDB(database *sql.DB) {
	db = database
}

func SetPgxPool(pool *pgxpool.Pool) {
	pgxPool = pool
}

// SetBlobStore picks where staged uploads are kept. Without one, uploads go
// to config.DefaultStagingDir.
func SetBlobStore(b staging.BlobStore) {
	blobs = b
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// GetPgxPool returns the pgx pool connection
func GetPgxPool() *pgxpool.Pool {
	return pgxPool
}

// components are shared by every service built from services.yaml.
type components struct {
	store    store.Store
	ledger   *ledger.Service
	importer *importer.Importer
	stager   *importer.Stager
	exporter *exporter.Exporter
	reaper   *staging.Reaper
}

var (
	shared     *components
	sharedErr  error
	sharedOnce sync.Once
)

func getComponents() (*components, error) {
	sharedOnce.Do(func() {
		var st store.Store
		if pgxPool != nil {
			st = store.NewPostgres(pgxPool)
		} else {
			st = store.NewMemory()
		}
		b := blobs
		if b == nil {
			disk, err := staging.NewDiskStore(config.DefaultStagingDir)
			if err != nil {
				sharedErr = fmt.Errorf("staging dir: %w", err)
				return
			}
			b = disk
		}
		sessions := session.NewManager()
		svc := ledger.NewService(st)
		im := importer.New(st)
		shared = &components{
			store:    st,
			ledger:   svc,
			importer: im,
			stager:   importer.NewStager(im, sessions, b),
			exporter: exporter.New(svc),
			reaper:   &staging.Reaper{Sessions: sessions, Blobs: b, MaxAge: config.DefaultSessionTTL},
		}
	})
	return shared, sharedErr
}

var serviceConstructors = map[string]func(map[string]interface{}) (serviceiface.Service, error){
	"logger": func(cfg map[string]interface{}) (serviceiface.Service, error) {
		return logger.NewLoggerService(cfg), nil
	},
	"gateway": func(cfg map[string]interface{}) (serviceiface.Service, error) {
		c, err := getComponents()
		if err != nil {
			return nil, err
		}
		perPage := config.Int(cfg, "per_page")
		if perPage <= 0 {
			perPage = config.DefaultPerPage
		}
		router := api.NewRouter()
		handlers.Register(router, handlers.Deps{
			Ledger:   c.ledger,
			Importer: c.importer,
			Stager:   c.stager,
			Exporter: c.exporter,
			PerPage:  perPage,
		})
		return api.NewGatewayService(cfg, router), nil
	},
	"cron": func(cfg map[string]interface{}) (serviceiface.Service, error) {
		c, err := getComponents()
		if err != nil {
			return nil, err
		}
		return jobs.NewCronService(cfg, c.reaper), nil
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

// StartAll starts services in registration order.
func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

// StopAll stops services in reverse order.
func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds every known service named in configs. Unknown
// names are skipped with a warning.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) error {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			fmt.Println("[WARN] unknown service in sequence:", svc.Name)
			continue
		}
		service, err := constructor(svc.Config)
		if err != nil {
			return fmt.Errorf("build service %s: %w", svc.Name, err)
		}
		am.RegisterService(service)
	}

	for _, svc := range am.services {
		if l, ok := svc.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
			break
		}
	}
	return nil
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
