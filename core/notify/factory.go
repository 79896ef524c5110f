package notify

import "github.com/kilianp07/failpredict/core/factory"

var notifierRegistry = factory.NewRegistry[Notifier]()

// RegisterNotifier adds a notifier factory identified by name.
func RegisterNotifier(name string, f factory.Factory[Notifier]) error {
	return notifierRegistry.Register(name, f)
}

// NewNotifier builds the notifiers described by cfgs. No configuration yields
// a NopNotifier.
func NewNotifier(cfgs []factory.ModuleConfig) (Notifier, error) {
	if len(cfgs) == 0 {
		return NopNotifier{}, nil
	}
	ns, err := notifierRegistry.CreateAll(cfgs)
	if err != nil {
		return nil, err
	}
	if len(ns) == 1 {
		return ns[0], nil
	}
	return NewMultiNotifier(ns...), nil
}

// NotifierNames lists the registered notifiers.
func NotifierNames() []string { return notifierRegistry.Names() }
