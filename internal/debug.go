package internal

import (
	"log"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

func ShowVersion() {
	log.Printf("Version: %s\n", versioninfo.Short())
}

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

// EnvironmentVars logs the environment variables whose names start with
// prefix, masking anything that looks like a credential.
func EnvironmentVars(prefix string) {
	log.Println("Environment variables")

	environ := os.Environ()
	sort.Slice(environ, func(i, j int) bool {
		keyI := strings.SplitN(environ[i], "=", 2)[0]
		keyJ := strings.SplitN(environ[j], "=", 2)[0]
		return keyI < keyJ
	})

	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if !strings.HasPrefix(kv[0], prefix) {
			continue
		}
		log.Printf("  %s: %s\n", kv[0], maskValue(kv[0], kv[1]))
	}
}

func maskValue(key, value string) string {
	if sensitiveRegex.MatchString(key) {
		return "********"
	}
	return value
}
