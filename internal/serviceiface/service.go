package serviceiface

// Service is a long-running component listed in services.yaml. The app
// manager starts services in start_order and stops them in reverse.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
