package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { enqueue(buildInfo) }

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Constant 1, labeled with the running version and commit.",
	},
	[]string{"version", "commit"},
)

// SetBuildInfo pins the version/commit series to 1 so dashboards can join
// other metrics against the deployed build.
func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}
