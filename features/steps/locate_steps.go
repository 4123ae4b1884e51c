//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/dikako/gdrive-downloader/cmd"

	"github.com/cucumber/godog"
)

func InitializeLocateScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I locate names containing "([^"]*)"$`, iLocateNamesContaining)
	ctx.Step(`^I locate the file with id "([^"]*)"$`, iLocateTheFileWithID)
	ctx.Step(`^I locate in folder path "([^"]*)" names containing "([^"]*)"$`, iLocateInFolderPathNamesContaining)
	ctx.Step(`^I attempt to locate with no selector$`, iAttemptToLocateWithNoSelector)
	ctx.Step(`^the destination should stay empty$`, theDestinationShouldStayEmpty)
}

func runLocate(in cmd.LocateInput, mustSucceed bool) error {
	d := getDriveContext()
	svc, err := d.service()
	if err != nil {
		return err
	}

	d.err = cmd.RunLocateWithDependencies(context.Background(), svc, in, d.output)
	if mustSucceed && d.err != nil {
		return fmt.Errorf("locate failed: %v", d.err)
	}
	return nil
}

func iLocateNamesContaining(term string) error {
	return runLocate(cmd.LocateInput{Contains: term}, true)
}

func iLocateTheFileWithID(fileID string) error {
	return runLocate(cmd.LocateInput{ID: fileID}, true)
}

func iLocateInFolderPathNamesContaining(path, term string) error {
	return runLocate(cmd.LocateInput{Contains: term, FolderPath: path}, true)
}

func iAttemptToLocateWithNoSelector() error {
	return runLocate(cmd.LocateInput{}, false)
}

func theDestinationShouldStayEmpty() error {
	d := getDriveContext()
	entries, err := os.ReadDir(d.destDir)
	if err != nil {
		return fmt.Errorf("read destination: %v", err)
	}
	if len(entries) != 0 {
		return fmt.Errorf("expected no downloaded files, found %d", len(entries))
	}
	return nil
}
