//go:build integration

package steps

import (
	"context"
	"fmt"

	"github.com/dikako/gdrive-downloader/cmd"
	"github.com/dikako/gdrive-downloader/domain/transfer"

	"github.com/cucumber/godog"
)

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I download the file with id "([^"]*)"$`, iDownloadTheFileWithID)
	ctx.Step(`^I attempt to download the file with id "([^"]*)"$`, iAttemptToDownloadTheFileWithID)
	ctx.Step(`^I fetch the file with id "([^"]*)"$`, iFetchTheFileWithID)
}

func iDownloadTheFileWithID(fileID string) error {
	d := getDriveContext()
	svc, err := d.service()
	if err != nil {
		return err
	}

	d.err = cmd.RunDownloadWithDependencies(context.Background(), svc, fileID, d.destDir, d.output)
	if d.err != nil {
		return fmt.Errorf("download failed: %v", d.err)
	}
	return nil
}

func iAttemptToDownloadTheFileWithID(fileID string) error {
	d := getDriveContext()
	svc, err := d.service()
	if err != nil {
		return err
	}

	d.err = cmd.RunDownloadWithDependencies(context.Background(), svc, fileID, d.destDir, d.output)
	return nil
}

func iFetchTheFileWithID(fileID string) error {
	d := getDriveContext()
	svc, err := d.service()
	if err != nil {
		return err
	}

	d.err = cmd.RunFetchWithDependencies(context.Background(), svc, fileID, d.destDir, transfer.Options{}, d.output)
	if d.err != nil {
		return fmt.Errorf("fetch failed: %v", d.err)
	}
	return nil
}
