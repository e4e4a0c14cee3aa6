package backend

import (
	"fmt"
	"strings"
)

// Environment selects a backend deployment.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Local       Environment = "local"
)

var environmentURLs = map[Environment]string{
	Production:  "http://shipmg.lphydrofoam.com:9030/api",
	Development: "http://leadpower.platree.com:9031/api",
	Local:       "http://localhost:9031/api",
}

// ResolveBaseURL returns override when set, otherwise the API root of env.
// An empty env means production.
func ResolveBaseURL(env, override string) (string, error) {
	if override != "" {
		return strings.TrimRight(override, "/"), nil
	}
	e := Environment(strings.ToLower(strings.TrimSpace(env)))
	if e == "" {
		e = Production
	}
	u, ok := environmentURLs[e]
	if !ok {
		return "", fmt.Errorf("unknown environment %q", env)
	}
	return u, nil
}
