// Package factory provides a small generic registry used to build pluggable
// backends (models, metrics sinks, notifiers) from configuration. A module is
// described by a type string and a map of raw settings; its factory decodes
// the settings into a typed struct and returns the implementation.
//
//	reg := factory.NewRegistry[prediction.Model]()
//	_ = reg.Register("logistic", func(conf map[string]any) (prediction.Model, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return modelstore.LoadLogistic(c.Path)
//	})
//	m, err := reg.Create(factory.ModuleConfig{Type: "logistic", Conf: map[string]any{"path": "model.json"}})
package factory
