package client

// FiwareContext carries the multi tenancy headers that FIWARE services use
// to scope requests. Service maps to the Fiware-Service header, ServicePath
// to Fiware-ServicePath and Correlator to Fiware-Correlator. Empty fields
// are never sent.
type FiwareContext struct {
	Service     string
	ServicePath string
	Correlator  string
}

func (fc FiwareContext) headers() map[string][]string {
	h := map[string][]string{}

	if fc.Service != "" {
		h["Fiware-Service"] = []string{fc.Service}
	}

	if fc.ServicePath != "" {
		h["Fiware-ServicePath"] = []string{fc.ServicePath}
	}

	if fc.Correlator != "" {
		h["Fiware-Correlator"] = []string{fc.Correlator}
	}

	return h
}
