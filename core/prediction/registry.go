package prediction

import "github.com/kilianp07/failpredict/core/factory"

var modelRegistry = factory.NewRegistry[Model]()

// RegisterModel adds a model backend factory identified by name.
func RegisterModel(name string, f factory.Factory[Model]) error {
	return modelRegistry.Register(name, f)
}

// NewModel builds the model described by cfg.
func NewModel(cfg factory.ModuleConfig) (Model, error) {
	return modelRegistry.Create(cfg)
}

// ModelNames lists the registered model backends.
func ModelNames() []string { return modelRegistry.Names() }
