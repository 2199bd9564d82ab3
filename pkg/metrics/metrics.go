// Package metrics holds the prometheus collectors of the api, the outbox
// publisher and the cron worker.
package metrics

const namespace = "barbachli"

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
