//go:build integration

package steps

import (
	"context"
	"fmt"

	"github.com/dikako/gdrive-downloader/cmd"

	"github.com/cucumber/godog"
)

func InitializeSearchScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I search for the exact name "([^"]*)"$`, iSearchForTheExactName)
	ctx.Step(`^I search for names containing "([^"]*)"$`, iSearchForNamesContaining)
	ctx.Step(`^I search for names matching "([^"]*)"$`, iSearchForNamesMatching)
	ctx.Step(`^I attempt to search for names matching "([^"]*)"$`, iAttemptToSearchForNamesMatching)
	ctx.Step(`^I search in folder path "([^"]*)" for names containing "([^"]*)"$`, iSearchInFolderPathForNamesContaining)
	ctx.Step(`^I attempt to search in folder path "([^"]*)" for names containing "([^"]*)"$`, iAttemptToSearchInFolderPathForNamesContaining)
	ctx.Step(`^I search in folder path "([^"]*)" for names containing "([^"]*)" acknowledging abuse$`, iSearchInFolderPathAcknowledgingAbuse)
	ctx.Step(`^the last download should have acknowledged abuse$`, theLastDownloadShouldHaveAcknowledgedAbuse)
}

func runSearch(in cmd.SearchInput, mustSucceed bool) error {
	d := getDriveContext()
	svc, err := d.service()
	if err != nil {
		return err
	}

	d.err = cmd.RunSearchWithDependencies(context.Background(), svc, in, d.destDir, d.output)
	if mustSucceed && d.err != nil {
		return fmt.Errorf("search failed: %v", d.err)
	}
	return nil
}

func iSearchForTheExactName(name string) error {
	return runSearch(cmd.SearchInput{Name: name}, true)
}

func iSearchForNamesContaining(term string) error {
	return runSearch(cmd.SearchInput{Contains: term}, true)
}

func iSearchForNamesMatching(pattern string) error {
	return runSearch(cmd.SearchInput{Regex: pattern}, true)
}

func iAttemptToSearchForNamesMatching(pattern string) error {
	return runSearch(cmd.SearchInput{Regex: pattern}, false)
}

func iSearchInFolderPathForNamesContaining(path, term string) error {
	return runSearch(cmd.SearchInput{Contains: term, FolderPath: path}, true)
}

func iAttemptToSearchInFolderPathForNamesContaining(path, term string) error {
	return runSearch(cmd.SearchInput{Contains: term, FolderPath: path}, false)
}

func iSearchInFolderPathAcknowledgingAbuse(path, term string) error {
	return runSearch(cmd.SearchInput{Contains: term, FolderPath: path, AckAbuse: true}, true)
}

func theLastDownloadShouldHaveAcknowledgedAbuse() error {
	d := getDriveContext()
	if len(d.api.downloadAcks) == 0 {
		return fmt.Errorf("no downloads were made")
	}
	if !d.api.downloadAcks[len(d.api.downloadAcks)-1] {
		return fmt.Errorf("expected the download to acknowledge abuse")
	}
	return nil
}
