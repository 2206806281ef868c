package client

import (
	"testing"

	"github.com/matryer/is"
)

func TestFiwareContextHeaders(t *testing.T) {
	is := is.New(t)

	fc := FiwareContext{Service: "fipy", ServicePath: "/", Correlator: "corr-1"}

	is.Equal(fc.headers(), map[string][]string{
		"Fiware-Service":     {"fipy"},
		"Fiware-ServicePath": {"/"},
		"Fiware-Correlator":  {"corr-1"},
	})
}

func TestFiwareContextLeavesOutEmptyHeaders(t *testing.T) {
	is := is.New(t)

	fc := FiwareContext{Service: "fipy"}

	is.Equal(fc.headers(), map[string][]string{"Fiware-Service": {"fipy"}})
}
