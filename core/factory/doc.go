// Package factory provides the generic registry used to build pluggable
// modules (cloud data sources, metrics recorders) from configuration. A
// module is selected by its type name and receives its raw settings, which
// factories decode into typed structs with Decode.
//
//	reg := factory.NewRegistry[cloud.Source]()
//	_ = reg.Register("sqlite", func(conf map[string]any) (cloud.Source, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return clouddb.NewSQLiteSource(c.Path), nil
//	})
//	src, err := reg.Create(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": "data/cloud.db"}})
package factory
