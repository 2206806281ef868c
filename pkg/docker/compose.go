// Package docker controls docker compose from test code, so that e2e suites
// can bring up and tear down the services they run against.
package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const defaultComposeFileName = "docker-compose.yml"

// Compose controls docker compose operations on a single compose file.
// Suites typically keep a docker-compose.yml next to their test files and
// create one controller per suite:
//
//	docker := docker.NewCompose("tests/e2e/setup_test.go")
//	docker.Start(ctx)
//	defer docker.Stop(ctx)
type Compose struct {
	baseCmd  []string
	baseDir  string
	fileName string
}

// NewCompose creates a controller for the compose file that lives in the
// same directory as the given test file
func NewCompose(testFilePath string, options ...func(*Compose)) *Compose {
	c := &Compose{
		baseCmd:  []string{"docker", "compose"},
		baseDir:  filepath.Dir(testFilePath),
		fileName: defaultComposeFileName,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// ComposeFileName overrides the default docker-compose.yml file name
func ComposeFileName(name string) func(*Compose) {
	return func(c *Compose) {
		c.fileName = name
	}
}

// BaseCommand overrides the docker compose base command, for environments
// that invoke compose differently
func BaseCommand(cmd ...string) func(*Compose) {
	return func(c *Compose) {
		c.baseCmd = cmd
	}
}

// ComposeFile returns the path of the compose file under control
func (c *Compose) ComposeFile() string {
	return filepath.Join(c.baseDir, c.fileName)
}

// BuildImages builds the images of all services in the compose file
func (c *Compose) BuildImages(ctx context.Context) error {
	return c.run(ctx, "build")
}

// Start brings up all services in detached mode
func (c *Compose) Start(ctx context.Context) error {
	return c.run(ctx, "up", "-d")
}

// Stop takes all services down and removes their volumes
func (c *Compose) Stop(ctx context.Context) error {
	return c.run(ctx, "down", "-v")
}

func (c *Compose) StartService(ctx context.Context, name string) error {
	return c.run(ctx, "start", name)
}

func (c *Compose) StopService(ctx context.Context, name string) error {
	return c.run(ctx, "stop", name)
}

// PauseService suspends all processes in a running service. Tests use this
// to simulate a service that stops responding without dropping connections.
func (c *Compose) PauseService(ctx context.Context, name string) error {
	return c.run(ctx, "pause", name)
}

func (c *Compose) UnpauseService(ctx context.Context, name string) error {
	return c.run(ctx, "unpause", name)
}

func (c *Compose) command(args ...string) []string {
	cmd := append([]string{}, c.baseCmd...)
	cmd = append(cmd, "-f", c.ComposeFile())
	cmd = append(cmd, args...)

	return cmd
}

func (c *Compose) run(ctx context.Context, args ...string) error {
	cmdLine := c.command(args...)

	cmd := exec.CommandContext(ctx, cmdLine[0], cmdLine[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("\"%s\" failed: %w", strings.Join(cmdLine, " "), err)
	}

	return nil
}
