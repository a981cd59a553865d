package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex report_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortID returns a short unique ID suitable for file name suffixes.
// Dashes are stripped so the result is safe inside artifact file names.
func GenerateShortID() string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(id, "-", "")
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_SHOP             = "shop"
	UUID_PREFIX_FISCAL_CONFIG    = "fiscal"
	UUID_PREFIX_GENERAL_SETTINGS = "settings"
	UUID_PREFIX_FTP_CONFIG       = "ftp"
	UUID_PREFIX_SCHEDULED_TASK   = "schtask"
	UUID_PREFIX_TASK             = "task"
	UUID_PREFIX_REPORT           = "report"
)
