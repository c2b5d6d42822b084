package llm

import "errors"

var (
	// ErrNoCredentials means neither provider is configured. Fatal, never retried.
	ErrNoCredentials = errors.New("no credentials for Azure OpenAI or OpenAI SaaS")

	// ErrAuth marks an authentication failure (401/403) from a provider.
	ErrAuth = errors.New("provider authentication failed")

	// ErrUnresolvable marks an endpoint whose hostname does not resolve; it is
	// an immediate provider failure that must not consume a network timeout.
	ErrUnresolvable = errors.New("endpoint hostname not resolvable")
)
