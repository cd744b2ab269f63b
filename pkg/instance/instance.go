package instance

import "os"

var idEnvKeys = []string{"ITSEATS_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the process instance identifier used in logs, or "local" when none is set.
func GetID() string {
	for _, key := range idEnvKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
