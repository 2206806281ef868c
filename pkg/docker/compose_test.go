package docker

import (
	"testing"

	"github.com/matryer/is"
)

func TestCommandPointsAtTheComposeFileNextToTheTests(t *testing.T) {
	is := is.New(t)

	c := NewCompose("/src/tests/e2e/setup_test.go")

	is.Equal(c.ComposeFile(), "/src/tests/e2e/docker-compose.yml")
	is.Equal(c.command("up", "-d"), []string{
		"docker", "compose", "-f", "/src/tests/e2e/docker-compose.yml", "up", "-d",
	})
}

func TestComposeFileNameCanBeOverridden(t *testing.T) {
	is := is.New(t)

	c := NewCompose("/src/tests/e2e/setup_test.go", ComposeFileName("broker-only.yml"))

	is.Equal(c.ComposeFile(), "/src/tests/e2e/broker-only.yml")
}

func TestBaseCommandCanBeOverridden(t *testing.T) {
	is := is.New(t)

	c := NewCompose("/src/tests/e2e/setup_test.go", BaseCommand("docker-compose"))

	is.Equal(c.command("build"), []string{
		"docker-compose", "-f", "/src/tests/e2e/docker-compose.yml", "build",
	})
}

func TestServiceCommands(t *testing.T) {
	is := is.New(t)

	c := NewCompose("/src/tests/e2e/setup_test.go")

	is.Equal(c.command("pause", "quantumleap"), []string{
		"docker", "compose", "-f", "/src/tests/e2e/docker-compose.yml", "pause", "quantumleap",
	})
}
