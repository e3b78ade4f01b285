// Package update checks a GitHub-style releases API for a newer plugin release.
//
// The package implements:
//   - A Fetcher performing one GET with the plugin's user agent
//   - Validation of the latest-release JSON document
//   - Semantic version comparison of the release tag with the running version
//   - Reporting of the outcome through leveled, translated log messages
//
// A check runs as a task on a task.Pool: the fetch happens on a worker
// goroutine and validation and reporting happen when the control loop
// collects the completion.
//
// Usage:
//
//	checker := update.NewChecker(pool, log, version.Build{}, version.Build{})
//	check, err := checker.CheckUpdate("https://api.github.com/repos/<owner>/<repo>/releases/latest")
//	if err != nil {
//	    return err
//	}
//	_ = pool.Await(ctx, check.Handle())
//	result, _ := check.Result()
package update
