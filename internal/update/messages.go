package update

import (
	"strconv"
	"strings"
)

// Message keys used when reporting a check
const (
	MsgCheckHost        = "update.check.host"
	MsgCheckFailed      = "update.check.failed"
	MsgCheckFailedError = "update.check.failed.error"
	MsgCheckUnknown     = "update.check.unknown"
	MsgCheckUpToDate    = "update.check.uptodate"
	MsgCheckFound       = "update.check.found"
)

// Translator resolves a message key with positional parameters.
// *lang.Language satisfies it.
type Translator interface {
	Translate(key string, params ...string) string
}

// Catalog is a Translator over a fixed map of messages using {%N} placeholders
type Catalog map[string]string

// DefaultCatalog holds the English messages used when no language is loaded
var DefaultCatalog = Catalog{
	MsgCheckHost:        "Checking for updates at {%0}",
	MsgCheckFailed:      "Update check failed",
	MsgCheckFailedError: "{%0} error: {%1}",
	MsgCheckUnknown:     "Current version {%0} is newer than the latest release {%1}",
	MsgCheckUpToDate:    "You are running the latest version ({%0})",
	MsgCheckFound:       "A new version is available: {%0} (published {%1}) {%2}",
}

// Translate returns the message for key, or key itself when unknown
func (c Catalog) Translate(key string, params ...string) string {
	msg, ok := c[key]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{%"+strconv.Itoa(i)+"}", p)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
