package update

import (
	"net/url"
)

// Request is the immutable snapshot a check runs with
type Request struct {
	// URL is the latest-release endpoint
	URL string
	// UserAgent identifies the plugin to the remote server
	UserAgent string
	// CurrentVersion is the running plugin version
	CurrentVersion string
}

// FetchResult is the raw outcome of one GET.
// Err is set for transport failures; StatusCode and Body are meaningless then.
type FetchResult struct {
	StatusCode int
	Body       string
	Err        error
}

// Failed reports whether the fetch failed at the transport level
func (r FetchResult) Failed() bool {
	return r.Err != nil
}

// ReleaseInfo holds the validated fields of a release document
type ReleaseInfo struct {
	HTMLURL     *url.URL
	TagName     string
	Name        string
	PublishedAt string
}

// Outcome is the result of comparing the release tag with the running version
type Outcome int

const (
	// OutcomeUnknown means the release tag sorts before the running version
	OutcomeUnknown Outcome = iota
	// OutcomeUpToDate means the release tag equals the running version
	OutcomeUpToDate
	// OutcomeUpdateAvailable means the release tag is newer
	OutcomeUpdateAvailable
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeUpdateAvailable:
		return "update-available"
	default:
		return "unknown"
	}
}

// outcomeFor maps a comparison of remote against current to an Outcome
func outcomeFor(cmp int) Outcome {
	switch {
	case cmp > 0:
		return OutcomeUpdateAvailable
	case cmp == 0:
		return OutcomeUpToDate
	default:
		return OutcomeUnknown
	}
}

// Result is what a completed check produced.
// Either Err is set, or Release and Outcome are.
type Result struct {
	Request Request
	Outcome Outcome
	Release *ReleaseInfo
	Err     *CheckError
}

// OK reports whether the check reached a version comparison
func (r Result) OK() bool {
	return r.Err == nil
}
