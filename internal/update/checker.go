package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/obentoo/pluginutils/internal/task"
)

// Required keys of a release document, in validation order
const (
	FieldHTMLURL     = "html_url"
	FieldTagName     = "tag_name"
	FieldName        = "name"
	FieldPublishedAt = "published_at"
)

// ErrNotJSONObject is the parse failure for JSON that is not an object
var ErrNotJSONObject = errors.New("response is not a JSON object")

// Reporter receives leveled check messages. *logger.Logger satisfies it.
type Reporter interface {
	Info(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// VersionSource supplies the running plugin version
type VersionSource interface {
	Version() string
}

// UserAgentProvider supplies the outbound user agent
type UserAgentProvider interface {
	UserAgent() string
}

// State is the progress of a single check
type State int32

const (
	StateIdle State = iota
	StateRequesting
	StateValidating
	StateReported
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateValidating:
		return "validating"
	case StateReported:
		return "reported"
	default:
		return "idle"
	}
}

// Checker submits update checks to a task pool
type Checker struct {
	pool       *task.Pool
	reporter   Reporter
	versions   VersionSource
	agents     UserAgentProvider
	fetcher    Fetcher
	translator Translator
}

// CheckerOption is a functional option for configuring Checker
type CheckerOption func(*Checker)

// WithFetcher sets the fetcher used by every check
func WithFetcher(f Fetcher) CheckerOption {
	return func(c *Checker) {
		c.fetcher = f
	}
}

// WithTranslator sets the message catalog used for reports
func WithTranslator(t Translator) CheckerOption {
	return func(c *Checker) {
		c.translator = t
	}
}

// NewChecker creates a checker. Reports use DefaultCatalog and requests go
// through a default HTTPFetcher unless overridden by options.
func NewChecker(pool *task.Pool, reporter Reporter, versions VersionSource, agents UserAgentProvider, opts ...CheckerOption) *Checker {
	c := &Checker{
		pool:       pool,
		reporter:   reporter,
		versions:   versions,
		agents:     agents,
		fetcher:    NewHTTPFetcher(),
		translator: DefaultCatalog,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckUpdate snapshots the running version and user agent and submits one
// asynchronous check of updateURL. It never blocks on the network.
func (c *Checker) CheckUpdate(updateURL string) (*Check, error) {
	req := Request{
		URL:            updateURL,
		UserAgent:      c.agents.UserAgent(),
		CurrentVersion: c.versions.Version(),
	}

	c.reporter.Info("%s", c.translator.Translate(MsgCheckHost, updateURL))

	t := &checkTask{
		req:        req,
		fetcher:    c.fetcher,
		reporter:   c.reporter,
		translator: c.translator,
	}
	h, err := c.pool.Submit(t)
	if err != nil {
		return nil, fmt.Errorf("submit update check: %w", err)
	}
	return &Check{handle: h, task: t}, nil
}

// Check is a submitted update check
type Check struct {
	handle *task.Handle
	task   *checkTask
}

// Handle returns the pool handle of the check
func (c *Check) Handle() *task.Handle {
	return c.handle
}

// Done is closed once the check has been reported
func (c *Check) Done() <-chan struct{} {
	return c.handle.Done()
}

// State returns how far the check has progressed
func (c *Check) State() State {
	return State(c.task.state.Load())
}

// Request returns the snapshot the check runs with
func (c *Check) Request() Request {
	return c.task.req
}

// Result returns the result once the check has been reported
func (c *Check) Result() (Result, bool) {
	select {
	case <-c.handle.Done():
		return c.task.result, true
	default:
		return Result{}, false
	}
}

// checkTask is the pool task behind a Check.
// fetched is written by Run and read by OnCompletion; the pool orders the two.
type checkTask struct {
	req        Request
	fetcher    Fetcher
	reporter   Reporter
	translator Translator

	state   atomic.Int32
	fetched FetchResult
	result  Result
}

func (t *checkTask) Run() {
	t.state.Store(int32(StateRequesting))
	t.fetched = t.fetcher.Fetch(context.Background(), t.req.URL, t.req.UserAgent)
}

func (t *checkTask) OnCompletion() {
	t.state.Store(int32(StateValidating))
	t.result = Evaluate(t.req, t.fetched)
	Report(t.reporter, t.translator, t.result)
	t.state.Store(int32(StateReported))
}

// Evaluate runs the validation pipeline over a fetch result and compares
// the release tag with the request's current version. The first failing
// gate ends the evaluation.
func Evaluate(req Request, res FetchResult) Result {
	result := Result{Request: req}

	if res.Failed() {
		result.Err = transportError(res.Err)
		return result
	}
	if res.StatusCode != 200 {
		result.Err = httpError(res.StatusCode)
		return result
	}

	release, cerr := ParseRelease(res.Body)
	if cerr != nil {
		result.Err = cerr
		return result
	}

	result.Release = release
	result.Outcome = outcomeFor(CompareVersions(release.TagName, req.CurrentVersion))
	return result
}

// ParseRelease decodes and validates a release document
func ParseRelease(body string) (*ReleaseInfo, *CheckError) {
	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, parseError(err)
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, parseError(ErrNotJSONObject)
	}

	rawURL, cerr := requireString(obj, FieldHTMLURL)
	if cerr != nil {
		return nil, cerr
	}
	htmlURL, err := url.Parse(rawURL)
	if err != nil || htmlURL.Scheme == "" || htmlURL.Host == "" {
		return nil, responseError(FieldHTMLURL, "not a valid URL")
	}

	release := &ReleaseInfo{HTMLURL: htmlURL}
	for _, field := range []struct {
		key  string
		dest *string
	}{
		{FieldTagName, &release.TagName},
		{FieldName, &release.Name},
		{FieldPublishedAt, &release.PublishedAt},
	} {
		v, cerr := requireString(obj, field.key)
		if cerr != nil {
			return nil, cerr
		}
		*field.dest = v
	}

	return release, nil
}

func requireString(obj map[string]interface{}, key string) (string, *CheckError) {
	v, exists := obj[key]
	if !exists || v == nil {
		return "", responseError(key, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", responseError(key, "not a string")
	}
	return s, nil
}

// Report logs the result: failures at error level followed by a generic
// failure line, outcomes at info or notice level.
func Report(r Reporter, t Translator, result Result) {
	if result.Err != nil {
		r.Error("%s", t.Translate(MsgCheckFailedError, result.Err.Kind.String(), result.Err.Detail()))
		r.Error("%s", t.Translate(MsgCheckFailed))
		return
	}

	current := result.Request.CurrentVersion
	release := result.Release
	switch result.Outcome {
	case OutcomeUnknown:
		r.Notice("%s", t.Translate(MsgCheckUnknown, current, release.TagName))
	case OutcomeUpToDate:
		r.Info("%s", t.Translate(MsgCheckUpToDate, current))
	case OutcomeUpdateAvailable:
		r.Notice("%s", t.Translate(MsgCheckFound, release.Name, release.PublishedAt, release.HTMLURL.String()))
	}
}
