package app

// Built-in cloud sources and metrics recorders register themselves by type name.
import (
	_ "github.com/kilianp07/skycloud/infra/clouddb"
	_ "github.com/kilianp07/skycloud/infra/influx"
	_ "github.com/kilianp07/skycloud/infra/metrics"
)
