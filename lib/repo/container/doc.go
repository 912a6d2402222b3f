// Package container wraps repositories into restricted views: Readonly forwards
// only the read operations (Has, Get, GetKeys, GetValues, ToArray, ToJSON),
// ReadWrite additionally forwards Set.
//
// Every container counts its reads, misses and writes in a VictoriaMetrics set,
// which can be shared between containers (WithMetricsSet) and exported with
// WritePrometheus:
//
//	hkv_container_reads_total{container="config"} 12
//	hkv_container_misses_total{container="config"} 1
//	hkv_container_writes_total{container="config"} 3
package container
