package appmanager

import (
	"os"
	"path/filepath"
	"testing"

	"LotusLedger/internal/staging"
)

const sequence = `services:
  - name: gateway
    start_order: 3
    config:
      port: 18080
      per_page: 25
  - name: logger
    start_order: 1
    config:
      folder_path: ./logs
  - name: cron
    start_order: 2
    config:
      reap_schedule: "*/5 * * * *"
  - name: fx
    start_order: 4
`

func TestLoadAndRegisterServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	if err := os.WriteFile(path, []byte(sequence), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfgs, err := LoadServiceSequence(path)
	if err != nil {
		t.Fatalf("LoadServiceSequence: %v", err)
	}
	if len(cfgs) != 4 || cfgs[0].Name != "logger" || cfgs[2].Name != "gateway" {
		t.Fatalf("order got=%v", cfgs)
	}

	disk, err := staging.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	SetBlobStore(disk)

	am := NewAppManager()
	if err := am.AutoRegisterServices(cfgs); err != nil {
		t.Fatalf("AutoRegisterServices: %v", err)
	}
	for _, name := range []string{"logger", "cron", "gateway"} {
		if am.GetServiceByName(name) == nil {
			t.Fatalf("service %s not registered", name)
		}
	}
	if am.GetServiceByName("fx") != nil {
		t.Fatalf("unknown service registered")
	}
}
