//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dikako/gdrive-downloader/cmd"
	"github.com/dikako/gdrive-downloader/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	output     *strings.Builder
	err        error
}

// SharedConfigContext is reset around each scenario via hooks
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.output = &strings.Builder{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a config file with download directory "([^"]*)"$`, testCtx.aConfigFileWithDownloadDirectory)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, testCtx.iSetTo)
	ctx.Step(`^I attempt to set "([^"]*)" to "([^"]*)"$`, testCtx.iAttemptToSetTo)
	ctx.Step(`^I show the configuration$`, testCtx.iShowTheConfiguration)
	ctx.Step(`^the output should list "([^"]*)" as "([^"]*)"$`, testCtx.theOutputShouldListAs)
	ctx.Step(`^the saved config should have download directory "([^"]*)"$`, testCtx.theSavedConfigShouldHaveDownloadDirectory)
	ctx.Step(`^the set should fail mentioning "([^"]*)"$`, testCtx.theSetShouldFailMentioning)
}

func (c *configContext) aConfigFileWithDownloadDirectory(dir string) error {
	cfg := &config.Config{}
	cfg.Google.CredentialsFile = "credentials.json"
	cfg.Download.Directory = dir
	if err := config.Save(cfg, c.configPath); err != nil {
		return fmt.Errorf("failed to seed config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iSetTo(key, value string) error {
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, c.output)
	if c.err != nil {
		return fmt.Errorf("config set failed: %w", c.err)
	}
	return nil
}

func (c *configContext) iAttemptToSetTo(key, value string) error {
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) iShowTheConfiguration() error {
	c.err = cmd.RunConfigShowWithDependencies(c.cfg, c.configPath, c.output)
	if c.err != nil {
		return fmt.Errorf("config show failed: %w", c.err)
	}
	return nil
}

func (c *configContext) theOutputShouldListAs(key, value string) error {
	for _, line := range strings.Split(c.output.String(), "\n") {
		if strings.HasPrefix(line, key) && strings.Contains(line, value) {
			return nil
		}
	}
	return fmt.Errorf("expected a line listing %q as %q, got:\n%s", key, value, c.output.String())
}

func (c *configContext) theSavedConfigShouldHaveDownloadDirectory(expected string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Download.Directory != expected {
		return fmt.Errorf("expected download directory %q, got %q", expected, cfg.Download.Directory)
	}
	return nil
}

func (c *configContext) theSetShouldFailMentioning(expected string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), expected) {
		return fmt.Errorf("expected error mentioning %q, got: %v", expected, c.err)
	}
	return nil
}
